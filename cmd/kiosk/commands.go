package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"kantin-be/internal/category"
	"kantin-be/internal/menu"
	"kantin-be/internal/order"
	"kantin-be/internal/store"
	"kantin-be/internal/utils"
)

var errUsage = errors.New("usage: kiosk <command> [flags]")

const usageText = `commands:
  menu [-category ID] [-q TEXT] [-all]   list the menu
  categories                             list categories with item counts
  info                                   restaurant details
  cart                                   show the cart
  add ID [QTY] [NOTES...]                add an item to the cart
  qty ID N                               set a quantity (0 removes)
  notes ID TEXT...                       set notes on a cart line
  remove ID                              remove a cart line
  clear                                  empty the cart
  order -name NAME [-phone P] [-notes N] send the cart over WhatsApp

admin:
  login EMAIL PASSWORD | logout | whoami
  dashboard
  item-add -name N -price P -category ID [-description D] [-image URL] [-hidden]
  item-edit ID [-name N] [-price P] [-category ID] [-description D] [-image URL]
  item-toggle ID | item-delete ID
  category-add -name N [-description D] [-order N]
  category-edit ID [-name N] [-description D] [-order N]
  category-delete ID
  settings-set [-name N] [-whatsapp NUMBER] [-message TEXT] [-address A] [-phone P] [-email E]
`

type app struct {
	st  *store.Store
	out io.Writer
}

func newApp(st *store.Store, out io.Writer) *app {
	return &app{st: st, out: out}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		fmt.Fprint(a.out, usageText)
		if len(args) == 0 {
			return errUsage
		}
		return nil
	}

	cmd, rest := args[0], args[1:]

	// cart edits and the session commands do not need the catalog loaded,
	// but adding by id does; loading once up front keeps the paths uniform
	if err := a.st.Start(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	switch cmd {
	case "menu":
		return a.menu(rest)
	case "categories":
		return a.categories()
	case "info":
		return a.info()
	case "cart":
		return a.cart()
	case "add":
		return a.add(rest)
	case "qty":
		return a.qty(rest)
	case "notes":
		return a.notes(rest)
	case "remove":
		if len(rest) != 1 {
			return errUsage
		}
		a.st.RemoveFromCart(rest[0])
		return a.cart()
	case "clear":
		a.st.ClearCart()
		fmt.Fprintln(a.out, "Keranjang dikosongkan.")
		return nil
	case "order":
		return a.order(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		a.st.Logout(ctx)
		fmt.Fprintln(a.out, "Signed out.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	}

	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	switch cmd {
	case "dashboard":
		return a.dashboard()
	case "item-add":
		return a.itemAdd(ctx, rest)
	case "item-toggle":
		if len(rest) != 1 {
			return errUsage
		}
		return a.st.ToggleAvailability(ctx, rest[0])
	case "item-edit":
		return a.itemEdit(ctx, rest)
	case "item-delete":
		if len(rest) != 1 {
			return errUsage
		}
		return a.st.DeleteMenuItem(ctx, rest[0])
	case "category-add":
		return a.categoryAdd(ctx, rest)
	case "category-edit":
		return a.categoryEdit(ctx, rest)
	case "category-delete":
		if len(rest) != 1 {
			return errUsage
		}
		return a.st.DeleteCategory(ctx, rest[0])
	case "settings-set":
		return a.settingsSet(ctx, rest)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

var errNotSignedIn = errors.New("admin commands need a session, run: kiosk login EMAIL PASSWORD")

func (a *app) requireAdmin(ctx context.Context) error {
	if err := a.st.WaitAuthResolved(ctx); err != nil {
		return err
	}
	if !a.st.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

// ---------- storefront ----------

func (a *app) menu(args []string) error {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(a.out)
	categoryID := fs.String("category", "", "category id")
	search := fs.String("q", "", "search text")
	all := fs.Bool("all", false, "include unavailable items")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := menu.FilterOptions{CategoryID: *categoryID, Search: *search}
	items := a.st.AvailableMenu(opts)
	if *all {
		items = menu.Filter(a.st.MenuItems(), opts)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Tidak ada menu yang ditemukan.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMENU\tHARGA\tSTATUS")
	for _, it := range items {
		status := "tersedia"
		if !it.IsAvailable {
			status = "habis"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Name, utils.FormatIDR(it.Price), status)
	}
	return tw.Flush()
}

func (a *app) categories() error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKATEGORI\tITEM")
	for _, c := range a.st.Categories() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, a.st.CategoryItemCount(c.ID))
	}
	return tw.Flush()
}

func (a *app) info() error {
	s := a.st.Settings()
	fmt.Fprintf(a.out, "%s\n%s\nTelp: %s\nEmail: %s\nSenin - Jumat: %s\nSabtu - Minggu: %s\n",
		s.RestaurantName, s.Address, s.Phone, s.Email,
		s.OpeningHours.Weekdays, s.OpeningHours.Weekends)
	return nil
}

func (a *app) cart() error {
	items := a.st.Cart()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Keranjang kosong.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMENU\tQTY\tSUBTOTAL\tCATATAN")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			it.MenuItem.ID, it.MenuItem.Name, it.Quantity, utils.FormatIDR(it.Subtotal()), it.Notes)
	}
	fmt.Fprintf(tw, "\t\t\t%s\t\n", utils.FormatIDR(a.st.CartTotal()))
	return tw.Flush()
}

func (a *app) add(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	qty := 1
	var notes string
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		qty = n
		notes = strings.Join(args[2:], " ")
	}

	if err := a.st.AddToCartByID(args[0], qty, notes); err != nil {
		return err
	}
	return a.cart()
}

func (a *app) qty(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	a.st.UpdateCartItemQuantity(args[0], n)
	return a.cart()
}

func (a *app) notes(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	a.st.UpdateCartItemNotes(args[0], strings.Join(args[1:], " "))
	return a.cart()
}

func (a *app) order(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "customer name")
	phone := fs.String("phone", "", "customer phone")
	notes := fs.String("notes", "", "order notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h, err := a.st.SubmitOrder(ctx, order.Customer{Name: *name, Phone: *phone, Notes: *notes})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pesanan %s (%s) diteruskan ke WhatsApp.\n", h.Ref, utils.FormatIDR(h.Total))
	return nil
}

// ---------- admin ----------

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if !a.st.Login(ctx, args[0], args[1]) {
		return errors.New("login failed")
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", a.st.CurrentUser().Email)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.st.WaitAuthResolved(ctx); err != nil {
		return err
	}
	if u := a.st.CurrentUser(); u != nil {
		fmt.Fprintln(a.out, u.Email)
		return nil
	}
	fmt.Fprintln(a.out, "anonymous")
	return nil
}

func (a *app) dashboard() error {
	d := a.st.Dashboard()
	fmt.Fprintf(a.out, "Total menu: %d (tersedia %d, habis %d)\nKategori: %d\nRata-rata harga: %s\n",
		d.TotalItems, d.AvailableItems, d.UnavailableItems, d.TotalCategories, utils.FormatIDR(d.AveragePrice))

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, cc := range d.ItemsPerCategory {
		fmt.Fprintf(tw, "  %s\t%d\n", cc.Category.Name, cc.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.RecentlyUpdated) > 0 {
		fmt.Fprintln(a.out, "Terakhir diperbarui:")
		for _, it := range d.RecentlyUpdated {
			fmt.Fprintf(a.out, "  %s  %s\n", it.UpdatedAt.Format("2006-01-02 15:04"), it.Name)
		}
	}
	return nil
}

func (a *app) itemAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("item-add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	in := menu.NewMenuItem{IsAvailable: true}
	fs.StringVar(&in.Name, "name", "", "item name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.Int64Var(&in.Price, "price", 0, "price in rupiah")
	fs.StringVar(&in.CategoryID, "category", "", "category id")
	fs.StringVar(&in.Image, "image", "", "image URL")
	hidden := fs.Bool("hidden", false, "create as unavailable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.IsAvailable = !*hidden

	id, err := a.st.AddMenuItem(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

// itemEdit sends only the flags that were given.
func (a *app) itemEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id := args[0]

	fs := flag.NewFlagSet("item-edit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "item name")
	description := fs.String("description", "", "description")
	price := fs.Int64("price", 0, "price in rupiah")
	categoryID := fs.String("category", "", "category id")
	image := fs.String("image", "", "image URL")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var in menu.UpdateMenuItem
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = utils.Ptr(*name)
		case "description":
			in.Description = utils.Ptr(*description)
		case "price":
			in.Price = utils.Ptr(*price)
		case "category":
			in.CategoryID = utils.Ptr(*categoryID)
		case "image":
			in.Image = utils.Ptr(*image)
		}
	})

	return a.st.UpdateMenuItem(ctx, id, in)
}

func (a *app) categoryAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("category-add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var in category.NewCategory
	fs.StringVar(&in.Name, "name", "", "category name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.IntVar(&in.Order, "order", 0, "sort position")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := a.st.AddCategory(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *app) categoryEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id := args[0]

	fs := flag.NewFlagSet("category-edit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "category name")
	description := fs.String("description", "", "description")
	sortOrder := fs.Int("order", 0, "sort position")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var in category.UpdateCategory
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = utils.Ptr(*name)
		case "description":
			in.Description = utils.Ptr(*description)
		case "order":
			in.Order = utils.Ptr(*sortOrder)
		}
	})

	return a.st.UpdateCategory(ctx, id, in)
}

// settingsSet edits the loaded settings; flags left unset keep their value.
func (a *app) settingsSet(ctx context.Context, args []string) error {
	s := a.st.Settings()

	fs := flag.NewFlagSet("settings-set", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&s.RestaurantName, "name", s.RestaurantName, "restaurant name")
	fs.StringVar(&s.WhatsAppNumber, "whatsapp", s.WhatsAppNumber, "WhatsApp number, digits only")
	fs.StringVar(&s.WhatsAppMessage, "message", s.WhatsAppMessage, "message template")
	fs.StringVar(&s.Address, "address", s.Address, "address")
	fs.StringVar(&s.Phone, "phone", s.Phone, "phone")
	fs.StringVar(&s.Email, "email", s.Email, "email")
	fs.StringVar(&s.OpeningHours.Weekdays, "weekdays", s.OpeningHours.Weekdays, "weekday hours")
	fs.StringVar(&s.OpeningHours.Weekends, "weekends", s.OpeningHours.Weekends, "weekend hours")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.st.UpdateSettings(ctx, s)
}
