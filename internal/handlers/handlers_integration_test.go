package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fleuria/internal/handlers"
	"fleuria/internal/middleware"
	"fleuria/internal/models"
	"fleuria/internal/repositories"
	"fleuria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv bundles the app with the collaborators tests need to reach past
// the HTTP surface.
type testEnv struct {
	app         *fiber.App
	authService *services.AuthService
	userRepo    repositories.UserRepository
	driverRepo  repositories.DriverRepository
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired the same way main.go wires them. Each test gets
// its own named in-memory database so state never leaks between tests.
func setupApp(dbName string) (*testEnv, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Product{}, &models.Category{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Driver{}, &models.User{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	driverRepo := repositories.NewGORMDriverRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	localOrders := repositories.NewLocalOrderStore()

	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	driverService := services.NewDriverService(driverRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	checkoutService := services.NewCheckoutService(cartService, orderRepo, userRepo, localOrders, nil, 59)
	orderService := services.NewOrderService(orderRepo, driverRepo, localOrders, nil)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, productService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService)
	driverHandler := handlers.NewDriverHandler(driverService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	cartGroup := apiV1.Group("", middleware.OptionalAuth(authService))
	cartHandler.RegisterRoutes(cartGroup)

	authedGroup := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProfileRoutes(authedGroup)
	orderHandler.RegisterRoutes(authedGroup)

	adminGroup := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.AdminRequired())
	orderHandler.RegisterAdminRoutes(adminGroup)
	driverHandler.RegisterAdminRoutes(adminGroup)
	productHandler.RegisterAdminRoutes(adminGroup)

	seedProductsForTest(productRepo)

	return &testEnv{
		app:         app,
		authService: authService,
		userRepo:    userRepo,
		driverRepo:  driverRepo,
	}, nil
}

// seedProductsForTest populates the catalog for tests.
func seedProductsForTest(repo repositories.ProductRepository) {
	products := []models.Product{
		{ID: "prod-rose", Name: "Rose Bouquet", Description: "A dozen red roses", Price: 899},
		{ID: "prod-sunflower", Name: "Sunflower Basket", Description: "Bright sunflowers", Price: 649},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Failed to seed product %s: %v", products[i].Name, err)
		}
	}
}

// registerAndLogin creates an account over HTTP and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":     email,
		"password":  password,
		"full_name": "Test Shopper",
		"phone":     "09171234567",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	return login(t, app, email, password)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	err = json.NewDecoder(resp.Body).Decode(&loginResp)
	assert.NoError(t, err)
	assert.NotEmpty(t, loginResp["token"])
	resp.Body.Close()
	return loginResp["token"]
}

// doJSON issues a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env, err := setupApp("auth_flow")
	assert.NoError(t, err)

	userToRegister := map[string]string{
		"email":     "maria@example.com",
		"password":  "password123",
		"full_name": "Maria Santos",
	}
	jsonBody, _ := json.Marshal(userToRegister)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&registerResp)
	assert.NoError(t, err)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	resp.Body.Close()

	// Duplicate email is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	token := login(t, env.app, "maria@example.com", "password123")

	claims, err := env.authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "maria@example.com", claims["email"])
	assert.Equal(t, models.RoleCustomer, claims["role"])
	assert.Contains(t, claims, "user_id")

	// Self-registration never grants admin, even if requested.
	sneaky := map[string]string{
		"email":     "sneaky@example.com",
		"password":  "password123",
		"full_name": "Sneaky Pete",
		"role":      models.RoleAdmin,
	}
	jsonBody, _ = json.Marshal(sneaky)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	sneakyToken := login(t, env.app, "sneaky@example.com", "password123")
	claims, err = env.authService.ValidateToken(sneakyToken)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, claims["role"])
}

func TestGuestCartFlow(t *testing.T) {
	env, err := setupApp("guest_cart")
	assert.NoError(t, err)

	// A guest without a key gets one minted and echoed back.
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", "", map[string]interface{}{
		"product_id": "prod-rose",
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	guestID := resp.Header.Get(handlers.GuestIDHeader)
	assert.NotEmpty(t, guestID)
	resp.Body.Close()

	// Subsequent requests with the same key see the same cart.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set(handlers.GuestIDHeader, guestID)
	getResp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	var lines []models.CartLine
	err = json.NewDecoder(getResp.Body).Decode(&lines)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, "prod-rose", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	getResp.Body.Close()

	// Guests cannot check out.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(`{"product_ids":["prod-rose"],"delivery_option":"pickup"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handlers.GuestIDHeader, guestID)
	resp, err = env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCartUnknownProduct(t *testing.T) {
	env, err := setupApp("cart_unknown")
	assert.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", "", map[string]interface{}{
		"product_id": "prod-missing",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutFlow(t *testing.T) {
	env, err := setupApp("checkout_flow")
	assert.NoError(t, err)

	token := registerAndLogin(t, env.app, "shopper@example.com", "password123")

	// Fill the cart as a signed-in shopper.
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "prod-rose",
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Check out with delivery; the fee is added on top of the item subtotal.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"product_ids":      []string{"prod-rose"},
		"delivery_option":  "delivery",
		"delivery_address": "12 Sampaguita St",
		"payment":          "Cash",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	err = json.NewDecoder(resp.Body).Decode(&order)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-001", order.OrderNumber)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.DriverUnassigned, order.DriverName)
	assert.Equal(t, 2*899+59, order.TotalAmount)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 899, order.Items[0].Price)
	resp.Body.Close()

	// The purchased line is gone from the cart.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/cart/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var lines []models.CartLine
	err = json.NewDecoder(resp.Body).Decode(&lines)
	assert.NoError(t, err)
	assert.Empty(t, lines)
	resp.Body.Close()

	// The order shows up in the shopper's history.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	err = json.NewDecoder(resp.Body).Decode(&orders)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	resp.Body.Close()

	// Checking out a selection that is not in the cart fails.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"product_ids":     []string{"prod-sunflower"},
		"delivery_option": "pickup",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminOrderLifecycle(t *testing.T) {
	env, err := setupApp("admin_lifecycle")
	assert.NoError(t, err)

	// Admins are provisioned out of band, not via self-registration.
	admin := &models.User{Email: "admin@example.com", Password: "adminpass1", FullName: "Shop Admin", Role: models.RoleAdmin}
	assert.NoError(t, env.authService.RegisterUser(admin))
	adminToken := login(t, env.app, "admin@example.com", "adminpass1")

	shopperToken := registerAndLogin(t, env.app, "shopper@example.com", "password123")

	// Shopper places a pickup order.
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", shopperToken, map[string]interface{}{
		"product_id": "prod-sunflower",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/checkout", shopperToken, map[string]interface{}{
		"product_ids":     []string{"prod-sunflower"},
		"delivery_option": "pickup",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	err = json.NewDecoder(resp.Body).Decode(&order)
	assert.NoError(t, err)
	assert.Equal(t, 649, order.TotalAmount)
	resp.Body.Close()

	// The shopper cannot reach the back office.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/admin/orders/", shopperToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The admin sees the order and accepts it.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/admin/orders/", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	err = json.NewDecoder(resp.Body).Decode(&orders)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/admin/orders/"+order.ID+"/accept", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Create a driver and assign it.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/admin/drivers/", adminToken, map[string]interface{}{
		"name":           "Paolo Reyes",
		"vehicle_number": "ABC-123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var driver models.Driver
	err = json.NewDecoder(resp.Body).Decode(&driver)
	assert.NoError(t, err)
	assert.NotEmpty(t, driver.ID)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/driver", adminToken, map[string]interface{}{
		"driver_id": driver.ID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Walk the status forward and verify the shopper sees it.
	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", adminToken, map[string]interface{}{
		"status": models.StatusReady,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+order.ID, shopperToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Order
	err = json.NewDecoder(resp.Body).Decode(&fetched)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReady, fetched.Status)
	assert.Equal(t, "Paolo Reyes", fetched.DriverName)
	resp.Body.Close()

	// An unknown status is rejected.
	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", adminToken, map[string]interface{}{
		"status": "Cancelled",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Delete the order and verify it is gone.
	resp = doJSON(t, env.app, http.MethodDelete, "/api/v1/admin/orders/"+order.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+order.ID, shopperToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderVisibilityBetweenShoppers(t *testing.T) {
	env, err := setupApp("order_visibility")
	assert.NoError(t, err)

	aliceToken := registerAndLogin(t, env.app, "alice@example.com", "password123")
	bobToken := registerAndLogin(t, env.app, "bob@example.com", "password123")

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", aliceToken, map[string]interface{}{
		"product_id": "prod-rose",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/checkout", aliceToken, map[string]interface{}{
		"product_ids":     []string{"prod-rose"},
		"delivery_option": "pickup",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	err = json.NewDecoder(resp.Body).Decode(&order)
	assert.NoError(t, err)
	resp.Body.Close()

	// Another shopper gets a 404, not a 403, so order IDs leak nothing.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+order.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders", bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	err = json.NewDecoder(resp.Body).Decode(&orders)
	assert.NoError(t, err)
	assert.Empty(t, orders)
	resp.Body.Close()
}

func TestAdminCatalogEndpoints(t *testing.T) {
	env, err := setupApp("admin_catalog")
	assert.NoError(t, err)

	admin := &models.User{Email: "admin@example.com", Password: "adminpass1", FullName: "Shop Admin", Role: models.RoleAdmin}
	assert.NoError(t, env.authService.RegisterUser(admin))
	adminToken := login(t, env.app, "admin@example.com", "adminpass1")

	// Reads are public.
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	err = json.NewDecoder(resp.Body).Decode(&products)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(products), 2)
	resp.Body.Close()

	// Writes require the admin gate.
	newProduct := map[string]interface{}{
		"name":        "Orchid Pot",
		"description": "Potted phalaenopsis orchid",
		"price":       1250,
	}
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/admin/products", "", newProduct)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/admin/products", adminToken, newProduct)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	err = json.NewDecoder(resp.Body).Decode(&created)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1250, created.Price)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodDelete, "/api/v1/admin/products/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
