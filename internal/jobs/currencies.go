package jobs

import "strings"

// Currency is a 3-letter ISO 4217 code from the supported set.
type Currency string

// DefaultCurrency is the fallback when a record carries no usable currency.
const DefaultCurrency Currency = "USD"

type currencyInfo struct {
	Name   string
	Symbol string
	// Rate converts one unit of the currency into US dollars. Rates are
	// fixed approximations used only for comparison and the USD hint,
	// never for payroll math.
	Rate float64
}

var currencyTable = map[Currency]currencyInfo{
	"USD": {"United States Dollar", "$", 1},
	"EUR": {"Euro", "€", 1.09},
	"GBP": {"British Pound", "£", 1.27},
	"CAD": {"Canadian Dollar", "C$", 0.74},
	"AUD": {"Australian Dollar", "A$", 0.66},
	"NZD": {"New Zealand Dollar", "NZ$", 0.61},
	"CHF": {"Swiss Franc", "CHF", 1.13},
	"JPY": {"Japanese Yen", "¥", 0.0067},
	"CNY": {"Chinese Yuan", "CN¥", 0.14},
	"HKD": {"Hong Kong Dollar", "HK$", 0.128},
	"SGD": {"Singapore Dollar", "S$", 0.74},
	"INR": {"Indian Rupee", "₹", 0.012},
	"BRL": {"Brazilian Real", "R$", 0.18},
	"MXN": {"Mexican Peso", "MX$", 0.055},
	"ARS": {"Argentine Peso", "ARS", 0.0011},
	"CLP": {"Chilean Peso", "CLP", 0.0011},
	"COP": {"Colombian Peso", "COP", 0.00024},
	"SEK": {"Swedish Krona", "kr", 0.095},
	"NOK": {"Norwegian Krone", "kr", 0.093},
	"DKK": {"Danish Krone", "kr", 0.146},
	"PLN": {"Polish Zloty", "zł", 0.25},
	"CZK": {"Czech Koruna", "Kč", 0.043},
	"HUF": {"Hungarian Forint", "Ft", 0.0028},
	"RON": {"Romanian Leu", "lei", 0.22},
	"ILS": {"Israeli New Shekel", "₪", 0.27},
	"AED": {"United Arab Emirates Dirham", "AED", 0.27},
	"SAR": {"Saudi Riyal", "SAR", 0.27},
	"ZAR": {"South African Rand", "R", 0.055},
	"NGN": {"Nigerian Naira", "₦", 0.00065},
	"KES": {"Kenyan Shilling", "KSh", 0.0077},
	"TRY": {"Turkish Lira", "₺", 0.031},
	"UAH": {"Ukrainian Hryvnia", "₴", 0.025},
	"IDR": {"Indonesian Rupiah", "Rp", 0.000063},
	"MYR": {"Malaysian Ringgit", "RM", 0.22},
	"THB": {"Thai Baht", "฿", 0.028},
	"VND": {"Vietnamese Dong", "₫", 0.00004},
	"PHP": {"Philippine Peso", "₱", 0.017},
	"KRW": {"South Korean Won", "₩", 0.00073},
	"TWD": {"New Taiwan Dollar", "NT$", 0.031},
	"PKR": {"Pakistani Rupee", "PKR", 0.0036},
}

// ValidCurrency reports whether code is in the supported set.
func ValidCurrency(code Currency) bool {
	_, ok := currencyTable[code]
	return ok
}

// CurrencyRate returns the fixed currency→USD exchange rate, or 1 for
// unsupported codes so downstream math degrades instead of failing.
func CurrencyRate(code Currency) float64 {
	if info, ok := currencyTable[code]; ok {
		return info.Rate
	}
	return 1
}

// CurrencySymbol returns the display symbol for a currency, falling back
// to the code itself when no symbol is known.
func CurrencySymbol(code Currency) string {
	if info, ok := currencyTable[code]; ok {
		return info.Symbol
	}
	return string(code)
}

// CurrencyName returns the display name for a supported currency.
func CurrencyName(code Currency) string {
	return currencyTable[code].Name
}

// currencyByName resolves a currency from its display name,
// case-insensitively. Returns false when the name is unknown.
func currencyByName(name string) (Currency, bool) {
	name = strings.TrimSpace(name)
	for code, info := range currencyTable {
		if strings.EqualFold(info.Name, name) {
			return code, true
		}
	}
	return "", false
}
