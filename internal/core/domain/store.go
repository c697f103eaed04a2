package domain

// Weekday names a day in a store's operating schedule.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// OperationalHour is one day of a store's schedule. Times are "HH:MM" in the store's local time.
type OperationalHour struct {
	Day       Weekday `json:"day"`
	OpenTime  string  `json:"openTime"`
	CloseTime string  `json:"closeTime"`
	IsClosed  bool    `json:"isClosed"`
}

// Store is a seller's shop. Each user owns at most one store.
type Store struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"userId"`
	StoreName      string  `json:"storeName"`
	Slug           string  `json:"slug"`
	Description    *string `json:"description,omitempty"`
	Address        string  `json:"address"`
	Province       string  `json:"province"`
	City           string  `json:"city"`
	PostalCode     string  `json:"postalCode"`
	PhoneNumber    string  `json:"phoneNumber"`
	Email          *string `json:"email,omitempty"`
	IsOpen         bool    `json:"isOpen"`
	ReturnPolicy   *string `json:"returnPolicy,omitempty"`
	ShippingPolicy *string `json:"shippingPolicy,omitempty"`

	// CategoryIDs is the write side of the store category relation; Categories is filled on reads.
	CategoryIDs      []int64           `json:"-"`
	Categories       []StoreCategory   `json:"categories"`
	OperationalHours []OperationalHour `json:"operationalHours"`
	AuditFields
}

// Actor is the authenticated caller of an ownership-checked operation.
type Actor struct {
	UserID int64
	Role   Role
}

// CanManage reports whether the actor may change a resource owned by ownerID.
func (a Actor) CanManage(ownerID int64) bool {
	return a.Role == RoleSuperAdmin || a.UserID == ownerID
}
