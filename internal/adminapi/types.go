package adminapi

import "encoding/json"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status the backend accepts, in workflow order.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// Page is the paginated payload nested inside the success envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
}

// Timestamps come over the wire as ISO local datetimes without a zone, so
// they stay strings here and get formatted at render time.

type Order struct {
	ID            int64         `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Subtotal      float64       `json:"subtotal"`
	Shipping      float64       `json:"shipping"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	ItemCount     int           `json:"itemCount"`
	OrderDate     string        `json:"orderDate"`
	DeliveredDate string        `json:"deliveredDate"`
	CreatedAt     string        `json:"createdAt"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"lineTotal"`
	Thumbnail string  `json:"thumbnail"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type OrderDetail struct {
	ID            int64         `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`

	Customer        User    `json:"customer"`
	ShippingAddress Address `json:"shippingAddress"`

	Items []OrderItem `json:"items"`

	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`

	CouponCode string `json:"couponCode"`
	Notes      string `json:"notes"`

	OrderDate     string `json:"orderDate"`
	DeliveredDate string `json:"deliveredDate"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type TimelineEntry struct {
	Status    OrderStatus `json:"status"`
	Notes     string      `json:"notes"`
	ChangedBy string      `json:"changedBy"`
	CreatedAt string      `json:"createdAt"`
}

type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discountPrice"`
	CategoryID    int64   `json:"categoryId"`
	CategoryName  string  `json:"categoryName"`
	StockQuantity int     `json:"stockQuantity"`
	InStock       bool    `json:"inStock"`
	Thumbnail     string  `json:"thumbnail"`
	IsActive      bool    `json:"isActive"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type Coupon struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	Type        CouponType `json:"type"`
	Value       float64    `json:"value"`
	MinPurchase float64    `json:"minPurchase"`
	MaxDiscount float64    `json:"maxDiscount"`
	UsageLimit  int        `json:"usageLimit"`
	UsageCount  int        `json:"usageCount"`
	ExpiresAt   string     `json:"expiresAt"`
	IsActive    bool       `json:"isActive"`
	IsExpired   bool       `json:"isExpired"`
	CreatedAt   string     `json:"createdAt"`
}

type User struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	ProfileImage string `json:"profileImage"`
	LastLogin    string `json:"lastLogin"`
	CreatedAt    string `json:"createdAt"`

	TotalOrders int64   `json:"totalOrders"`
	TotalSpent  float64 `json:"totalSpent"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
}

type SalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type DashboardStats struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalCustomers int64   `json:"totalCustomers"`
	PendingOrders  int64   `json:"pendingOrders"`

	RevenueChange   float64 `json:"revenueChange"`
	OrdersChange    float64 `json:"ordersChange"`
	CustomersChange float64 `json:"customersChange"`

	SalesData        []SalesPoint `json:"salesData"`
	RecentOrders     []Order      `json:"recentOrders"`
	LowStockProducts []Product    `json:"lowStockProducts"`
}

type TopProduct struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitsSold   int64   `json:"unitsSold"`
	Revenue     float64 `json:"revenue"`
}

type SalesReport struct {
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	TotalOrders int64        `json:"totalOrders"`
	Revenue     float64      `json:"revenue"`
	Points      []SalesPoint `json:"points"`
}

type ActivityLog struct {
	ID        int64  `json:"id"`
	AdminID   int64  `json:"adminId"`
	AdminName string `json:"adminName"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entityId"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"createdAt"`
}

type StockMovement struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	AdjustedBy  string `json:"adjustedBy"`
	CreatedAt   string `json:"createdAt"`
}

// Admin is the authenticated console identity returned by login and /me.
type Admin struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}
