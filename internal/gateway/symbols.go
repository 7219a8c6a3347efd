package gateway

import "strings"

// exchangeNames maps exchange codes to display names.
var exchangeNames = map[string]string{
	"SHFE":  "Shanghai Futures Exchange",
	"DCE":   "Dalian Commodity Exchange",
	"CZCE":  "Zhengzhou Commodity Exchange",
	"CFFEX": "China Financial Futures Exchange",
	"INE":   "Shanghai International Energy Exchange",
}

// varietyNames maps variety codes to contract names for the common products.
var varietyNames = map[string]string{
	"au": "Gold",
	"ag": "Silver",
	"cu": "Copper",
	"al": "Aluminium",
	"zn": "Zinc",
	"rb": "Rebar",
	"hc": "Hot Rolled Coil",
	"m":  "Soybean Meal",
	"y":  "Soybean Oil",
	"p":  "Palm Oil",
	"c":  "Corn",
	"CF": "Cotton",
	"SR": "Sugar",
	"TA": "PTA",
	"MA": "Methanol",
	"IF": "CSI 300 Index",
	"IC": "CSI 500 Index",
	"IH": "SSE 50 Index",
	"IM": "CSI 1000 Index",
}

// ExchangeName returns the display name for an exchange code, or the code
// itself when unknown.
func ExchangeName(code string) string {
	if name, ok := exchangeNames[code]; ok {
		return name
	}
	return code
}

// ExchangeCode extracts the exchange part of a full symbol like "SHFE.au2506".
func ExchangeCode(symbol string) string {
	if i := strings.Index(symbol, "."); i > 0 {
		return symbol[:i]
	}
	return ""
}

// SymbolName builds a human-readable contract name from a full symbol:
// "SHFE.au2506" becomes "Gold2506". Unknown varieties keep their code.
func SymbolName(symbol string) string {
	parts := strings.SplitN(symbol, ".", 2)
	if len(parts) != 2 {
		return symbol
	}
	contract := parts[1]

	variety := strings.TrimRight(contract, "0123456789")
	name := variety
	if n, ok := varietyNames[variety]; ok {
		name = n
	} else if n, ok := varietyNames[strings.ToLower(variety)]; ok {
		name = n
	}

	if len(contract) >= 4 {
		return name + contract[len(contract)-4:]
	}
	return name
}
