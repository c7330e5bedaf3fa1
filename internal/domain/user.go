package domain

// Role is a platform user role.
type Role string

// List of user roles
const (
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
)

// User is a platform account as seen by the fulfillment workflow.
type User struct {
	ID        int64
	Role      Role
	FirstName string
	LastName  string
	Location  GeoPoint
	HasCoords bool
}

// CourierLocation is an eligible courier with a known position.
type CourierLocation struct {
	CourierID int64
	Location  GeoPoint
}
