package rules

// Default returns the built-in starter table. Order is part of the
// contract: more specific keywords come before the generic ones that
// would shadow them ("uber eats" before "uber", "payroll" before "pay").
func Default() *Table {
	return NewTable([]Rule{
		// Dining before transport so delivery apps don't land in Transport.
		{Keyword: "uber eats", Category: "Dining"},
		{Keyword: "deliveroo", Category: "Dining"},
		{Keyword: "just eat", Category: "Dining"},
		{Keyword: "restaurant", Category: "Dining"},
		{Keyword: "cafe", Category: "Dining"},
		{Keyword: "starbucks", Category: "Dining"},
		{Keyword: "brasserie", Category: "Dining"},

		{Keyword: "grocery", Category: "Groceries"},
		{Keyword: "supermarket", Category: "Groceries"},
		{Keyword: "carrefour", Category: "Groceries"},
		{Keyword: "lidl", Category: "Groceries"},
		{Keyword: "aldi", Category: "Groceries"},
		{Keyword: "monoprix", Category: "Groceries"},
		{Keyword: "leclerc", Category: "Groceries"},
		{Keyword: "intermarche", Category: "Groceries"},
		{Keyword: "franprix", Category: "Groceries"},
		{Keyword: "boulangerie", Category: "Groceries"},

		{Keyword: "payroll", Category: "Income"},
		{Keyword: "salaire", Category: "Income"},
		{Keyword: "salary", Category: "Income"},
		{Keyword: "remboursement", Category: "Income"},
		{Keyword: "refund", Category: "Income"},

		{Keyword: "uber", Category: "Transport"},
		{Keyword: "taxi", Category: "Transport"},
		{Keyword: "ratp", Category: "Transport"},
		{Keyword: "sncf", Category: "Transport"},
		{Keyword: "metro", Category: "Transport"},
		{Keyword: "parking", Category: "Transport"},
		{Keyword: "essence", Category: "Transport"},
		{Keyword: "fuel", Category: "Transport"},
		{Keyword: "peage", Category: "Transport"},

		{Keyword: "amazon", Category: "Shopping"},
		{Keyword: "fnac", Category: "Shopping"},
		{Keyword: "decathlon", Category: "Shopping"},
		{Keyword: "zara", Category: "Shopping"},
		{Keyword: "uniqlo", Category: "Shopping"},
		{Keyword: "vinted", Category: "Shopping"},
		{Keyword: "leboncoin", Category: "Shopping"},

		{Keyword: "netflix", Category: "Entertainment"},
		{Keyword: "spotify", Category: "Entertainment"},
		{Keyword: "deezer", Category: "Entertainment"},
		{Keyword: "cinema", Category: "Entertainment"},
		{Keyword: "steam", Category: "Entertainment"},
		{Keyword: "concert", Category: "Entertainment"},

		{Keyword: "pharmacie", Category: "Health"},
		{Keyword: "pharmacy", Category: "Health"},
		{Keyword: "docteur", Category: "Health"},
		{Keyword: "doctor", Category: "Health"},
		{Keyword: "mutuelle", Category: "Health"},
		{Keyword: "dentist", Category: "Health"},

		{Keyword: "edf", Category: "Utilities"},
		{Keyword: "engie", Category: "Utilities"},
		{Keyword: "veolia", Category: "Utilities"},
		{Keyword: "orange", Category: "Utilities"},
		{Keyword: "bouygues", Category: "Utilities"},
		{Keyword: "electric", Category: "Utilities"},
		{Keyword: "internet", Category: "Utilities"},

		{Keyword: "loyer", Category: "Housing"},
		{Keyword: "rent", Category: "Housing"},
		{Keyword: "assurance habitation", Category: "Housing"},
		{Keyword: "mortgage", Category: "Housing"},

		{Keyword: "virement", Category: "Transfers"},
		{Keyword: "retrait", Category: "Transfers"},
		{Keyword: "transfer", Category: "Transfers"},
		{Keyword: "withdrawal", Category: "Transfers"},
		{Keyword: "atm", Category: "Transfers"},

		{Keyword: "cotisation", Category: "Fees"},
		{Keyword: "bank fee", Category: "Fees"},
		{Keyword: "frais", Category: "Fees"},
	}, DefaultFallback)
}
