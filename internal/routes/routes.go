package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"feiraja/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	adminAuth gin.HandlerFunc,
	whatsappHandler *handlers.WhatsAppAuthHandler,
	userHandler *handlers.UserHandler,
	addressHandler *handlers.AddressHandler,
	boxPriceHandler *handlers.BoxPriceHandler,
	categoryHandler *handlers.CategoryHandler,
	producerHandler *handlers.ProducerHandler,
	productHandler *handlers.ProductHandler,
	authHandler *handlers.AuthHandler,
	webhookHandler *handlers.WebhookHandler,
	toolsHandler *handlers.WhatsAppToolsHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// ---- public
	api.GET("/health", healthHandler.Health)

	wa := api.Group("/whatsapp")
	{
		wa.POST("/check-user", whatsappHandler.CheckUser)
		wa.POST("/send-code", whatsappHandler.SendCode)
		wa.POST("/verify-code", whatsappHandler.VerifyCode)
		wa.POST("/register", whatsappHandler.Register)
		wa.POST("/quick-login", whatsappHandler.QuickLogin)
	}

	users := api.Group("/users")
	{
		users.POST("/authenticate", userHandler.Authenticate)
		users.GET("/:phoneNumber/profile", userHandler.Profile)
		users.GET("/:phoneNumber/status", userHandler.Status)
		users.PUT("/:phoneNumber/basket", userHandler.UpdateBasket)
	}

	hooks := api.Group("/webhook")
	{
		hooks.GET("/whatsapp", webhookHandler.Verify)
		hooks.POST("/whatsapp", webhookHandler.Receive)
		hooks.POST("/user-access", webhookHandler.UserAccess)
	}

	api.POST("/admin/login", authHandler.Login)

	// адреса: чтение публичное, создание только с токеном
	for _, prefix := range []string{"/addresses", "/admin/addresses"} {
		addrs := api.Group(prefix)
		addrs.GET("", addressHandler.List)
		addrs.GET("/:id", addressHandler.Get)
		addrs.POST("", adminAuth, addressHandler.Create)
	}

	// каталог: чтение публичное, изменения только с токеном
	api.GET("/categories", categoryHandler.List)
	api.GET("/admin/categories", adminAuth, categoryHandler.ListAll)
	for _, prefix := range []string{"/categories", "/admin/categories"} {
		cats := api.Group(prefix, adminAuth)
		cats.POST("", categoryHandler.Create)
		cats.PUT("/:id", categoryHandler.Update)
		cats.DELETE("/:id", categoryHandler.Delete)
	}
	for _, prefix := range []string{"/producers", "/admin/producers"} {
		prods := api.Group(prefix)
		prods.GET("", producerHandler.List)
		prods.GET("/:id", producerHandler.Get)
		prods.POST("", adminAuth, producerHandler.Create)
		prods.PUT("/:id", adminAuth, producerHandler.Update)
		prods.DELETE("/:id", adminAuth, producerHandler.Delete)
	}
	for _, prefix := range []string{"/products", "/admin/products"} {
		items := api.Group(prefix)
		items.GET("", productHandler.List)
		items.GET("/:id", productHandler.Get)
		items.POST("", adminAuth, productHandler.Create)
		items.PUT("/:id", adminAuth, productHandler.Update)
		items.DELETE("/:id", adminAuth, productHandler.Delete)
	}

	// ---- protected (admin JWT)
	admins := api.Group("/admin/admins", adminAuth)
	{
		admins.GET("", authHandler.ListAdmins)
		admins.POST("", authHandler.CreateAdmin)
		admins.PUT("/:id", authHandler.UpdateAdmin)
		admins.DELETE("/:id", authHandler.DeleteAdmin)
	}

	boxPrices := api.Group("/admin/box-prices", adminAuth)
	{
		boxPrices.GET("", boxPriceHandler.List)
		boxPrices.GET("/:id", boxPriceHandler.Get)
		boxPrices.POST("", boxPriceHandler.Create)
		boxPrices.PUT("/:id", boxPriceHandler.Update)
		boxPrices.DELETE("/:id", boxPriceHandler.Delete)
	}

	tools := api.Group("/whatsapp-test", adminAuth)
	{
		tools.POST("/test-message", toolsHandler.TestMessage)
		tools.POST("/test-welcome", toolsHandler.TestWelcome)
		tools.POST("/test-order", toolsHandler.TestOrder)
		tools.POST("/generate-link", toolsHandler.GenerateLink)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return r
}
