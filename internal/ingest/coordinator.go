// Package ingest orchestrates one sync run: fetch candidate messages,
// filter, classify, extract, de-duplicate, categorize, persist.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rumor-ml/commons.systems/smsledger/internal/classify"
	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
	"github.com/rumor-ml/commons.systems/smsledger/internal/extract"
	"github.com/rumor-ml/commons.systems/smsledger/internal/rules"
)

// merchantMaxLen caps the persisted merchant field.
const merchantMaxLen = 50

// State is the coordinator's sync lifecycle: Idle -> Syncing ->
// Completed or Failed. A run is single-shot and not resumable; the next
// user-triggered sync starts fresh from Idle.
type State string

const (
	StateIdle      State = "idle"
	StateSyncing   State = "syncing"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// MessageSource supplies candidate messages, newest first.
type MessageSource interface {
	FetchInbox(ctx context.Context, maxCount int) ([]domain.RawMessage, error)
}

// Storage is the persistence boundary the coordinator writes through.
type Storage interface {
	FindByRawBody(body string) (*domain.TransactionRecord, error)
	InsertIgnoringDuplicates(rec *domain.TransactionRecord) (bool, error)
	ListActiveCategoryRules() ([]domain.CategoryRule, error)
	ListExcludedSenderAddresses() ([]string, error)
}

// Result summarizes one sync run.
type Result struct {
	Inserted          int
	DuplicatesSkipped int
	ExcludedSkipped   int
	NotTransactions   int
	CompletedAt       time.Time
	Err               error
}

// Coordinator runs the ingestion pipeline. Only one run is in flight at a
// time; a second RunSync while syncing is rejected. The run itself is
// idempotent per message (raw-body dedup), so even an accidental
// concurrent run converges to the same stored state.
type Coordinator struct {
	source      MessageSource
	storage     Storage
	log         *slog.Logger
	fetchWindow int

	mu     sync.Mutex
	state  State
	result Result
}

// New creates a coordinator. fetchWindow bounds how many messages are
// pulled per run; it is deliberately oversampled since classification
// discards many candidates.
func New(source MessageSource, storage Storage, log *slog.Logger, fetchWindow int) *Coordinator {
	if fetchWindow <= 0 {
		fetchWindow = 500
	}
	return &Coordinator{
		source:      source,
		storage:     storage,
		log:         log,
		fetchWindow: fetchWindow,
		state:       StateIdle,
	}
}

// Status returns the current state and the last run's result.
func (c *Coordinator) Status() (State, Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.result
}

// RunSync executes one sync run. Failures abort the remainder of the
// batch; records persisted before the failure stay persisted (per-item
// persistence, no batch-wide transaction). Rerunning after a failure
// naturally continues where it left off thanks to raw-body dedup.
func (c *Coordinator) RunSync(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state == StateSyncing {
		c.mu.Unlock()
		return Result{}, fmt.Errorf("sync already in progress")
	}
	c.state = StateSyncing
	c.mu.Unlock()

	result, err := c.run(ctx)
	result.CompletedAt = time.Now()
	result.Err = err

	c.mu.Lock()
	if err != nil {
		c.state = StateFailed
	} else {
		c.state = StateCompleted
	}
	c.result = result
	c.mu.Unlock()

	return result, err
}

func (c *Coordinator) run(ctx context.Context) (Result, error) {
	var result Result

	// Excluded senders and active rules are read fresh at the start of
	// every run; rules arrive pre-sorted descending by priority from the
	// storage query.
	excluded, err := c.storage.ListExcludedSenderAddresses()
	if err != nil {
		return result, fmt.Errorf("load excluded senders: %w", err)
	}
	activeRules, err := c.storage.ListActiveCategoryRules()
	if err != nil {
		return result, fmt.Errorf("load category rules: %w", err)
	}

	messages, err := c.source.FetchInbox(ctx, c.fetchWindow)
	if err != nil {
		return result, fmt.Errorf("fetch messages: %w", err)
	}
	c.log.Info("sync started", "candidates", len(messages), "rules", len(activeRules))

	for _, msg := range messages {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if senderExcluded(msg.SenderAddress, excluded) {
			result.ExcludedSkipped++
			continue
		}

		existing, err := c.storage.FindByRawBody(msg.Body)
		if err != nil {
			return result, fmt.Errorf("dedup lookup: %w", err)
		}
		if existing != nil {
			result.DuplicatesSkipped++
			continue
		}

		if !classify.IsTransactionMessage(msg.SenderAddress, msg.Body) {
			result.NotTransactions++
			continue
		}

		parsed := extract.Extract(msg.Body)
		if !parsed.IsUsable() {
			// Amount or direction missing: not a usable transaction.
			// Never persist a partial record.
			result.NotTransactions++
			continue
		}

		merchant := resolveMerchantName(parsed.Merchant, msg.SenderAddress)

		rec, err := domain.NewTransactionRecord(
			uuid.NewString(), *parsed.Amount, merchant, *parsed.Direction,
			msg.TimestampMs, msg.Body, msg.SenderAddress,
		)
		if err != nil {
			return result, fmt.Errorf("build record for message %s: %w", msg.ID, err)
		}
		// Categorization uses the extracted merchant, not the fallback
		// display name.
		rec.CategoryID = rules.Match(parsed.Merchant, activeRules)
		rec.ReferenceID = parsed.ReferenceID
		rec.AccountSuffix = parsed.AccountSuffix
		rec.BalanceAfter = parsed.BalanceAfter

		inserted, err := c.storage.InsertIgnoringDuplicates(rec)
		if err != nil {
			return result, fmt.Errorf("persist record for message %s: %w", msg.ID, err)
		}
		if inserted {
			result.Inserted++
		} else {
			// Lost the race between the dedup check and the insert;
			// the conflict-ignoring insert makes that harmless.
			result.DuplicatesSkipped++
		}
	}

	c.log.Info("sync completed",
		"inserted", result.Inserted,
		"duplicates", result.DuplicatesSkipped,
		"excluded", result.ExcludedSkipped,
		"discarded", result.NotTransactions)
	return result, nil
}

func senderExcluded(sender string, excluded []string) bool {
	lower := strings.ToLower(sender)
	for _, e := range excluded {
		if e == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e)) {
			return true
		}
	}
	return false
}

// resolveMerchantName prefers the extracted merchant; otherwise it
// derives a display name from the sender address by stripping the
// two-letter route prefix and expanding a BK/BNK suffix.
func resolveMerchantName(merchant *string, senderAddress string) string {
	if merchant != nil && *merchant != "" {
		return truncate(*merchant, merchantMaxLen)
	}
	return truncate(fallbackDisplayName(senderAddress), merchantMaxLen)
}

var bankSuffixes = []string{"BNK", "BK"}

func fallbackDisplayName(senderAddress string) string {
	name := strings.ToUpper(strings.TrimSpace(senderAddress))
	if len(name) > 3 && name[2] == '-' {
		name = name[3:]
	}
	for _, sfx := range bankSuffixes {
		if len(name) > len(sfx) && strings.HasSuffix(name, sfx) {
			return strings.TrimSuffix(name, sfx) + " Bank"
		}
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
