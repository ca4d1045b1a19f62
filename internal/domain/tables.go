package domain

var Tables = []interface{}{
	// System
	&Admin{},
	&SysOprLog{},
	// Catalog
	&Product{},
}
