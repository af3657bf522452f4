package source

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// xmlFormat reads "SMS Backup & Restore" style exports: a <smses> root
// with one <sms> element per message, fields as attributes, epoch-ms
// dates as strings.
type xmlFormat struct{}

func newXMLFormat() *xmlFormat { return &xmlFormat{} }

func (x *xmlFormat) Name() string { return "xml" }

func (x *xmlFormat) CanParse(path string, header []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return true
	}
	trimmed := bytes.TrimLeft(header, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<smses"))
}

type xmlSMS struct {
	Address string `xml:"address,attr"`
	Body    string `xml:"body,attr"`
	Date    string `xml:"date,attr"`
	Read    string `xml:"read,attr"`
}

type xmlBackup struct {
	XMLName xml.Name `xml:"smses"`
	SMS     []xmlSMS `xml:"sms"`
}

func (x *xmlFormat) Parse(ctx context.Context, r io.Reader) ([]domain.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var backup xmlBackup
	if err := xml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("unmarshal XML backup: %w", err)
	}

	messages := make([]domain.RawMessage, 0, len(backup.SMS))
	for i, sms := range backup.SMS {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ts, err := strconv.ParseInt(sms.Date, 10, 64)
		if err != nil {
			// Malformed timestamps happen in hand-edited backups;
			// skip the record rather than failing the whole file.
			continue
		}
		messages = append(messages, domain.RawMessage{
			ID:            fmt.Sprintf("xml-%d", i),
			SenderAddress: sms.Address,
			Body:          sms.Body,
			TimestampMs:   ts,
			IsRead:        sms.Read == "1",
		})
	}
	return messages, nil
}

// jsonFormat reads a flat JSON array of message objects, the shape most
// third-party SMS export apps produce.
type jsonFormat struct{}

func newJSONFormat() *jsonFormat { return &jsonFormat{} }

func (j *jsonFormat) Name() string { return "json" }

func (j *jsonFormat) CanParse(path string, header []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	trimmed := bytes.TrimLeft(header, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("["))
}

type jsonSMS struct {
	Address string `json:"address"`
	Body    string `json:"body"`
	DateMs  int64  `json:"date"`
	Read    bool   `json:"read"`
}

func (j *jsonFormat) Parse(ctx context.Context, r io.Reader) ([]domain.RawMessage, error) {
	var records []jsonSMS
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("unmarshal JSON backup: %w", err)
	}

	messages := make([]domain.RawMessage, 0, len(records))
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		messages = append(messages, domain.RawMessage{
			ID:            fmt.Sprintf("json-%d", i),
			SenderAddress: rec.Address,
			Body:          rec.Body,
			TimestampMs:   rec.DateMs,
			IsRead:        rec.Read,
		})
	}
	return messages, nil
}
