package settings

// SingletonID is the primary key of the single settings row.
const SingletonID = "appSettings"

type OpeningHours struct {
	Weekdays string `json:"weekdays"`
	Weekends string `json:"weekends"`
}

type Settings struct {
	RestaurantName string `json:"restaurantName"`
	WhatsAppNumber string `json:"whatsappNumber"`
	// WhatsAppMessage may contain {orderDetails} and {totalPrice}.
	WhatsAppMessage string       `json:"whatsappMessage"`
	Address         string       `json:"address"`
	Phone           string       `json:"phone"`
	Email           string       `json:"email"`
	OpeningHours    OpeningHours `json:"openingHours"`
}

const DefaultMessageTemplate = "Halo, saya ingin memesan:\n\n{orderDetails}\n\nTotal: {totalPrice}\n\nTerima kasih!"

// Default is served when nothing has been persisted yet.
func Default() Settings {
	return Settings{
		RestaurantName:  "Kantin Mak Vika",
		WhatsAppNumber:  "6281277112721",
		WhatsAppMessage: DefaultMessageTemplate,
		Address:         "Jl. Setia Lk II , Tanjungbalai",
		Phone:           "081277112721",
		Email:           "admin@kantinmakvika.com",
		OpeningHours: OpeningHours{
			Weekdays: "08:00 - 13:00",
			Weekends: "08:00 - 11:00",
		},
	}
}
