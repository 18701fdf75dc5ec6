package router

import (
	"net/http"

	"agrimart/internal/catalog"
	"agrimart/internal/metrics"
	"agrimart/internal/notify"
	"agrimart/internal/orders"
	"agrimart/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New builds the local status server: health and metrics plus a read-only
// view of the synchronised state and a manual per-order refresh hook.
func New(
	poller *orders.Poller,
	notifier *notify.Reconciler,
	cache *catalog.Cache,
	sessions *session.Store,
	logger zerolog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	log := logger.With().Str("component", "local-server").Logger()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/status", func(c *gin.Context) {
		orderList := poller.Orders()
		display := make([]gin.H, 0, len(orderList))
		for i := range orderList {
			o := &orderList[i]
			display = append(display, gin.H{
				"id":            o.ID,
				"status":        o.Status,
				"courierInfo":   o.Courier,
				"displayStatus": o.DisplayStatus(),
				"amount":        o.Amount,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"authenticated":      sessions.Authenticated(),
			"orders":             display,
			"unreadCount":        notifier.UnreadCount(),
			"catalogueSize":      len(cache.Products()),
			"catalogueRefreshed": cache.LastRefresh(),
		})
	})

	r.POST("/orders/:id/refresh", func(c *gin.Context) {
		id := c.Param("id")
		if err := poller.RefreshOne(c.Request.Context(), id); err != nil {
			log.Warn().Err(err).Str("order_id", id).Msg("manual refresh failed")
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		order, _ := poller.Order(id)
		c.JSON(http.StatusOK, gin.H{"courierInfo": order.Courier})
	})

	return r
}
