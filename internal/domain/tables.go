package domain

var Tables = []interface{}{
	// Accounts
	&Vendor{},
	// Catalog
	&Product{},
	&PackSize{},
	// Trade
	&Cart{},
	&CartItem{},
	&Order{},
	&OrderItem{},
}
