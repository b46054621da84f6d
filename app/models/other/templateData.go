package other

import (
	"html/template"
	"net/url"

	"github.com/Rakhulsr/go-storeadmin/app/models"
)

type BasePageData struct {
	Title       string
	User        *models.User
	IsLoggedIn  bool
	CSRFField   template.HTML
	Flashes     []string
	Error       string
	Query       url.Values
	CurrentPath string
}
