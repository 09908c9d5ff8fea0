package redisx

import "time"

const (
	// Bearer token -> identity JSON: auth:token:{token}
	KeyAuthToken = "auth:token:%s"

	// Catalog cache: product:{product_id} -> product JSON
	KeyProduct = "product:%s"

	// Catalog cache: full listing JSON
	KeyProductList = "products:all"

	// Running units-sold counter per product: sales:{product_id}
	KeySales = "sales:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLAuthToken = 30 * 24 * time.Hour
	TTLCatalog   = 5 * time.Minute
	TTLDedup     = 48 * time.Hour
)
