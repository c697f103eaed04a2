package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/core/ports/services"
)

const apiV1Prefix = "/api/v1"

// catalogEvents names the analytics event recorded for each successful catalog write.
// Auth flows are tracked by the auth service, so they are not listed here.
var catalogEvents = map[string]string{
	"POST /stores":                           "store_opened",
	"PATCH /stores/:storeID":                 "store_updated",
	"DELETE /stores/:storeID":                "store_closed",
	"POST /products":                         "product_created",
	"PATCH /products/:productID":             "product_updated",
	"DELETE /products/:productID":            "product_deleted",
	"POST /store-categories":                 "store_category_created",
	"PATCH /store-categories/:categoryID":    "store_category_updated",
	"DELETE /store-categories/:categoryID":   "store_category_deleted",
	"POST /product-categories":               "product_category_created",
	"PATCH /product-categories/:categoryID":  "product_category_updated",
	"DELETE /product-categories/:categoryID": "product_category_deleted",
}

// CatalogActivityMiddleware records a named event for every successful catalog write made by an
// authenticated user. A nil tracker disables it.
func CatalogActivityMiddleware(events services.EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if events == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		event, ok := catalogEvents[c.Request.Method+" "+strings.TrimPrefix(c.FullPath(), apiV1Prefix)]
		if !ok {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{"status_code": c.Writer.Status()}
		if role, ok := GetUserRoleFromContext(c); ok {
			props["role"] = string(role)
		}
		for _, p := range c.Params {
			// storeID -> store_id
			if id, err := strconv.ParseInt(p.Value, 10, 64); err == nil {
				props[strings.ToLower(strings.TrimSuffix(p.Key, "ID"))+"_id"] = id
			}
		}
		events.Enqueue(strconv.FormatInt(userID, 10), event, props)
	}
}

