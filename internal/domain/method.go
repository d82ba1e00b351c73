package domain

import "github.com/shopspring/decimal"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyBDT Currency = "BDT"
)

type MethodCategory string

const (
	CategoryMobileWallet MethodCategory = "mobile_wallet"
	CategoryEWallet      MethodCategory = "e_wallet"
	CategoryBankWallet   MethodCategory = "bank_wallet"
	CategoryInternal     MethodCategory = "internal"
	CategoryCard         MethodCategory = "card"
)

// PaymentMethod is an entry in the static method catalog.
// FeePercent applies when the method is the source side of an exchange.
type PaymentMethod struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Currency   Currency       `json:"currency"`
	Category   MethodCategory `json:"category"`
	FeePercent decimal.Decimal `json:"fee_percent"`
}

const (
	MethodBkash    = "bkash"
	MethodNagad    = "nagad"
	MethodPayPal   = "paypal"
	MethodPayoneer = "payoneer"
	MethodWise     = "wise"
	MethodWallet   = "wallet" // internal USD wallet
	MethodCard     = "card"   // virtual card top-up target
)

var methodCatalog = map[string]PaymentMethod{
	MethodBkash:    {ID: MethodBkash, Name: "bKash", Currency: CurrencyBDT, Category: CategoryMobileWallet, FeePercent: decimal.RequireFromString("1.85")},
	MethodNagad:    {ID: MethodNagad, Name: "Nagad", Currency: CurrencyBDT, Category: CategoryMobileWallet, FeePercent: decimal.RequireFromString("1.4")},
	MethodPayPal:   {ID: MethodPayPal, Name: "PayPal", Currency: CurrencyUSD, Category: CategoryEWallet, FeePercent: decimal.RequireFromString("5")},
	MethodPayoneer: {ID: MethodPayoneer, Name: "Payoneer", Currency: CurrencyUSD, Category: CategoryEWallet, FeePercent: decimal.RequireFromString("1")},
	MethodWise:     {ID: MethodWise, Name: "Wise", Currency: CurrencyUSD, Category: CategoryBankWallet, FeePercent: decimal.RequireFromString("2.9")},
	MethodWallet:   {ID: MethodWallet, Name: "Wallet", Currency: CurrencyUSD, Category: CategoryInternal, FeePercent: decimal.Zero},
	MethodCard:     {ID: MethodCard, Name: "Virtual Card", Currency: CurrencyUSD, Category: CategoryCard, FeePercent: decimal.Zero},
}

// MethodByID resolves a catalog entry. The second return is false for
// unknown method ids.
func MethodByID(id string) (PaymentMethod, bool) {
	m, ok := methodCatalog[id]
	return m, ok
}

// ListMethods returns the full catalog.
func ListMethods() []PaymentMethod {
	out := make([]PaymentMethod, 0, len(methodCatalog))
	for _, m := range methodCatalog {
		out = append(out, m)
	}
	return out
}
