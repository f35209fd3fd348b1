package printapi

// Credentials identifies the caller to the photo service.
type Credentials struct {
	APIKey      string
	AffiliateID string
}

// Customer holds the contact details attached to a print order.
type Customer struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// Asset is a staged local image awaiting upload.
type Asset struct {
	// LocalPath is the staged copy read during upload.
	LocalPath string
	// DisplayPath is the original path shown in reports.
	DisplayPath string
	// Name is the generated object name in the upload container.
	Name string
	// ContentType is image/jpeg or image/png.
	ContentType string
}

// Order is a fully built print order, ready for a single submission attempt.
type Order struct {
	Customer    Customer
	StoreNum    string
	PromiseTime string
	ProductID   string
	Quantity    int // prints per photo
	CouponCode  string
	Assets      []Asset
}

// Outcome reports the service's verdict after a submission attempt.
type Outcome struct {
	OrderNumber string
	StoreNum    string

	// PickupDetails is carried verbatim from the service response. It is
	// never parsed or reformatted on this side.
	PickupDetails string

	// Accepted lists the display paths of images the service now holds,
	// in submission order. Rejected maps display path to the upload
	// failure reason.
	Accepted []string
	Rejected map[string]string
}

// UploadCredentials holds the storage grant returned by the credential
// endpoint. The token embeds the container URL and a signed query string.
type UploadCredentials struct {
	SASKeyToken string
}

// Product describes one entry from the print product catalog.
type Product struct {
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductRef names a product and quantity for store search and coupon
// validation requests.
type ProductRef struct {
	ProductID string `json:"productId"`
	Qty       string `json:"qty"`
}

// Store describes a pickup store returned by the store search.
type Store struct {
	StoreNum     string `json:"storeNum"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Phone        string `json:"phone"`
	Distance     string `json:"distance"`
	DistanceUnit string `json:"distanceUnit"`
	PromiseTime  string `json:"promiseTime"`
}

// OrderStatus is one order's status line.
type OrderStatus struct {
	VendorOrderID string `json:"vendorOrderId"`
	Status        string `json:"orderStatus"`
	PromiseTime   string `json:"promiseTime"`
	StoreNum      string `json:"storeNum"`
}

// CouponResult is the discount information for a validated coupon code.
type CouponResult struct {
	CouponCode string `json:"couponCode"`
	Discount   string `json:"discount"`
	Status     string `json:"couponStatus"`
}

// --- wire payloads ---

// baseRequest carries the fields every photo service call requires.
type baseRequest struct {
	APIKey      string `json:"apiKey"`
	AffiliateID string `json:"affId"`
	AppVersion  string `json:"appVer"`
	DeviceInfo  string `json:"devInf"`
}

type credsRequest struct {
	baseRequest
	Platform    string `json:"platform"`
	Transaction string `json:"transaction"`
}

type cloudCredential struct {
	SASKeyToken string `json:"sasKeyToken"`
}

type credsResponse struct {
	Cloud []cloudCredential `json:"cloud"`
}

type submitRequest struct {
	baseRequest
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	StoreNum       string          `json:"storeNum"`
	PromiseTime    string          `json:"promiseTime"`
	Action         string          `json:"act"`
	ProductDetails []productDetail `json:"productDetails"`
	CouponCode     string          `json:"couponCode,omitempty"`
	PublisherID    string          `json:"publisherId,omitempty"`
	Notes          string          `json:"affNotes,omitempty"`
}

type productDetail struct {
	ProductID    string        `json:"productId"`
	Quantity     string        `json:"quantity"`
	ImageDetails []imageDetail `json:"imageDetails"`
}

type imageDetail struct {
	URL string `json:"url"`
	Qty string `json:"qty"`
}

type submitResponse struct {
	VendorOrderID string `json:"vendorOrderId"`
	PromiseTime   string `json:"promiseTime"`
}

type productsRequest struct {
	baseRequest
	ProductGroupID string `json:"productGroupId"`
	Action         string `json:"act"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type storesRequest struct {
	baseRequest
	Latitude       string       `json:"latitude"`
	Longitude      string       `json:"longitude"`
	Radius         string       `json:"radius"`
	Action         string       `json:"act"`
	ProductDetails []ProductRef `json:"productDetails"`
}

type storesResponse struct {
	PhotoStores []struct {
		Details Store `json:"photoStoreDetails"`
	} `json:"photoStores"`
}

type statusRequest struct {
	baseRequest
	Orders []string `json:"orders"`
	Action string   `json:"act"`
}

type statusResponse struct {
	Orders []OrderStatus `json:"orders"`
}

type couponRequest struct {
	baseRequest
	CouponCode     string       `json:"couponCode"`
	Action         string       `json:"act"`
	ProductDetails []ProductRef `json:"productDetails"`
}

// envelope carries the service's error fields, present on failures.
type envelope struct {
	ErrCode string `json:"errCode,omitempty"`
	ErrMsg  string `json:"errMsg,omitempty"`
}
