package enums

// OrderSource records which intake channel produced an order.
type OrderSource string

const (
	OrderSourceWeb       OrderSource = "web"
	OrderSourceWordPress OrderSource = "wordpress"
	OrderSourceAPI       OrderSource = "api"
)

// String implements fmt.Stringer.
func (o OrderSource) String() string {
	return string(o)
}
