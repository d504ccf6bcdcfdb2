package domain

// Location is a parking lot tied to a physical gate. The gate's phone
// number is actuation configuration, not data; only the gate number lives
// here so the gateway can resolve the destination at call time.
type Location struct {
	ID              int64
	Name            string
	Apartment       string
	Address         string
	GateNumber      int
	GateName        string
	GateDescription string
}
