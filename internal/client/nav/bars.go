package nav

import (
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
)

// MainBar is the top navigation line. The last entry follows the session.
func MainBar(signedIn bool) string {
	items := []string{"home", "users", "account", "cart"}
	if signedIn {
		items = append(items, "logout")
	} else {
		items = append(items, "login", "register")
	}
	return format.Heading("Zamazon") + "  " + strings.Join(items, " | ")
}

// CategoryBar lists the browse categories, marking the current one.
func CategoryBar(current string) string {
	items := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		if c == current {
			c = "[" + c + "]"
		}
		items = append(items, c)
	}
	return format.Muted("category: " + strings.Join(items, " "))
}

// CategoryPath is the listing of one browse category; "all" is home.
func CategoryPath(category string) string {
	if category == "" || category == models.Categories[0] {
		return "/"
	}
	return "/products/" + category
}
