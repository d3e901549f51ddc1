// Package gold builds the business layer from silver tables: the client
// and time dimensions, the purchase fact table and the KPI datasets.
// Every function is pure and independent of input row order.
package gold

import (
	"math"

	"github.com/shopspring/decimal"
)

// Column names shared by silver and gold tables.
const (
	ColClientID   = "id_client"
	ColSignupDate = "date_inscription"
	ColCountry    = "pays"
	ColPurchaseID = "id_achat"
	ColDate       = "date_achat"
	ColAmount     = "montant"

	ColSignupYear = "annee_inscription"

	ColCount       = "nb_achats"
	ColRevenue     = "ca_total"
	ColBasketMean  = "panier_moyen"
	ColPrevRevenue = "ca_mois_precedent"
	ColGrowth      = "croissance_pct"
)

// Round rounds half away from zero to 2 decimal places. The float is
// read through its shortest decimal representation, so 2.675 becomes
// 2.68 and not 2.67. NaN and infinities are returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
