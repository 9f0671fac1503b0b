package entity

// Bill is the loan case imported from the core banking export, keyed by SPK.
type Bill struct {
	Code             string `json:"code" bson:"no_spk"`
	Name             string `json:"name" bson:"name"`
	Address          string `json:"address" bson:"address"`
	DebitTray        int64  `json:"debit_tray" bson:"debit_tray"`
	LastInterest     int64  `json:"last_interest" bson:"last_interest"`
	Principal        int64  `json:"principal" bson:"principal"`
	LastPrincipal    int64  `json:"last_principal" bson:"last_principal"`
	PenaltyInterest  int64  `json:"penalty_interest" bson:"penalty_interest"`
	PenaltyPrincipal int64  `json:"penalty_principal" bson:"penalty_principal"`
	Plafond          int64  `json:"plafond" bson:"plafond"`
	LastInstallment  int64  `json:"last_installment" bson:"last_installment"`
}
