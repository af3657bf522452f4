package bank

// Display colors keyed by bank code. Purely cosmetic; unrecognized codes
// fall back to the default.
var bankColors = map[string]string{
	"HDFC":     "#004C8F",
	"ICICI":    "#F37B20",
	"SBI":      "#22409A",
	"AXIS":     "#97144D",
	"KOTAK":    "#ED1C24",
	"PNB":      "#A20E37",
	"CANARA":   "#0073BC",
	"BOI":      "#0054A6",
	"UNION":    "#D71921",
	"IDFC":     "#9C1D26",
	"INDUSIND": "#98272A",
	"YES":      "#00518F",
	"FEDERAL":  "#FDB913",
	"RBL":      "#21317D",
	"AU":       "#EC691F",
	"PAYTM":    "#00BAF2",
	"AIRTEL":   "#E40000",
}

const defaultColor = "#607D8B"

// ColorForCode returns the display color for a bank code.
func ColorForCode(code string) string {
	if c, ok := bankColors[code]; ok {
		return c
	}
	return defaultColor
}
