package renderer

import (
	"html/template"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/utils/format"
	"github.com/unrolled/render"
)

type Options struct {
	Directory      string
	CurrencySymbol string
	IsDevelopment  bool
}

func New(opts Options) *render.Render {
	if opts.Directory == "" {
		opts.Directory = "templates"
	}
	currency := format.NewCurrency(opts.CurrencySymbol)

	return render.New(render.Options{
		Directory:     opts.Directory,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IndentJSON:    opts.IsDevelopment,
		IsDevelopment: opts.IsDevelopment,
		Funcs: []template.FuncMap{
			{
				"until": func(count int) []int {
					items := make([]int, count)
					for i := 0; i < count; i++ {
						items[i] = i
					}
					return items
				},
				"add":         func(a, b int) int { return a + b },
				"sub":         func(a, b int) int { return a - b },
				"money":       currency.Money,
				"statusLabel": models.OrderStatusLabel,
				"statuses":    func() []string { return models.OrderStatuses },
				"date": func(t time.Time) string {
					if t.IsZero() {
						return "-"
					}
					return t.Format("02 Jan 2006 15:04")
				},
				"title": func(s string) string {
					if s == "" {
						return s
					}
					s = strings.ReplaceAll(s, "_", " ")
					return strings.ToUpper(s[:1]) + s[1:]
				},
			},
		},
	})
}
