package seed

import (
	"kantin-be/internal/category"
	"kantin-be/internal/menu"
	"kantin-be/internal/settings"
)

type seedItem struct {
	category string
	item     menu.NewMenuItem
}

var categories = []category.NewCategory{
	{Name: "Appetizers", Description: "Hidangan pembuka yang menggugah selera", Order: 1},
	{Name: "Main Courses", Description: "Hidangan utama pilihan chef", Order: 2},
	{Name: "Desserts", Description: "Hidangan penutup manis", Order: 3},
	{Name: "Beverages", Description: "Minuman segar dan nikmat", Order: 4},
}

func item(cat, name, desc string, price int64, image string) seedItem {
	return seedItem{
		category: cat,
		item: menu.NewMenuItem{
			Name:        name,
			Description: desc,
			Price:       price,
			Image:       image,
			IsAvailable: true,
		},
	}
}

var menuItems = []seedItem{
	item("Appetizers", "Bruschetta Classica", "Roti panggang dengan tomat segar, basil, bawang putih, dan minyak zaitun extra virgin", 65000, "https://images.unsplash.com/photo-1572695157366-5e585ab2b69f?w=400"),
	item("Appetizers", "Calamari Fritti", "Cumi-cumi goreng tepung dengan saus marinara dan aioli lemon", 95000, "https://images.unsplash.com/photo-1599487488170-d11ec9c172f0?w=400"),
	item("Appetizers", "Caprese Salad", "Tomat segar, mozzarella, basil dengan balsamic glaze", 75000, "https://images.unsplash.com/photo-1608897013039-887f21d8c804?w=400"),
	item("Main Courses", "Spaghetti Carbonara", "Pasta dengan saus krim telur, pancetta, parmesan, dan lada hitam", 125000, "https://images.unsplash.com/photo-1612874742237-6526221588e3?w=400"),
	item("Main Courses", "Osso Buco", "Betis sapi yang dimasak lambat dengan sayuran, anggur putih, dan gremolata", 285000, "https://images.unsplash.com/photo-1544025162-d76694265947?w=400"),
	item("Main Courses", "Risotto ai Funghi", "Risotto krim dengan jamur porcini, truffle oil, dan parmesan", 165000, "https://images.unsplash.com/photo-1476124369491-e7addf5db371?w=400"),
	item("Main Courses", "Grilled Salmon", "Salmon panggang dengan lemon butter sauce dan asparagus", 225000, "https://images.unsplash.com/photo-1467003909585-2f8a72700288?w=400"),
	item("Desserts", "Tiramisu", "Dessert klasik Italia dengan ladyfinger, mascarpone, espresso, dan cocoa", 75000, "https://images.unsplash.com/photo-1571877227200-a0d98ea607e9?w=400"),
	item("Desserts", "Panna Cotta", "Krim puding vanilla dengan saus berry segar", 65000, "https://images.unsplash.com/photo-1488477181946-6428a0291777?w=400"),
	item("Desserts", "Gelato Trio", "Tiga scoop gelato pilihan: vanilla, cokelat, dan strawberry", 55000, "https://images.unsplash.com/photo-1567206563064-6f60f40a2b57?w=400"),
	item("Beverages", "Espresso", "Espresso shot klasik dari biji kopi premium", 35000, "https://images.unsplash.com/photo-1510707577719-ae7c14805e3a?w=400"),
	item("Beverages", "Fresh Lemonade", "Lemonade segar dengan mint dan madu", 45000, "https://images.unsplash.com/photo-1621263764928-df1444c5e859?w=400"),
	item("Beverages", "Italian Soda", "Soda Italia dengan sirup buah pilihan", 40000, "https://images.unsplash.com/photo-1558642452-9d2a7deb7f62?w=400"),
}

func initialSettings() settings.Settings {
	s := settings.Default()
	s.OpeningHours = settings.OpeningHours{
		Weekdays: "11:00 - 22:00",
		Weekends: "10:00 - 23:00",
	}
	return s
}
