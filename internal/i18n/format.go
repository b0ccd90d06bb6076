package i18n

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var huf = currency.MustParseISO("HUF")

// FormatPrice renders a whole-unit price with the locale's digit grouping
// and the narrow currency symbol. English puts the symbol first, every
// other locale after the amount. Unknown currency codes fall back to HUF.
func FormatPrice(price float64, locale, code string) string {
	p := message.NewPrinter(language.Make(Info(locale).DateLocale))
	amount := p.Sprintf("%v", number.Decimal(price, number.MaxFractionDigits(0)))

	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		unit = huf
	}
	symbol := p.Sprint(currency.NarrowSymbol(unit))
	if Info(locale).Code == "en" {
		if utf8.RuneCountInString(symbol) == 1 {
			return symbol + amount
		}
		return symbol + " " + amount
	}
	return amount + " " + symbol
}

type dateFormat struct {
	months [12]string
	layout func(day int, month string, year int) string
}

func dayFirst(sep, suffix string) func(int, string, int) string {
	return func(d int, m string, y int) string { return fmt.Sprintf("%d%s %s %d%s", d, sep, m, y, suffix) }
}

// Month names are the genitive forms used in long dates.
var dateFormats = map[string]dateFormat{
	"hu": {
		months: [12]string{"január", "február", "március", "április", "május", "június", "július", "augusztus", "szeptember", "október", "november", "december"},
		layout: func(d int, m string, y int) string { return fmt.Sprintf("%d. %s %d.", y, m, d) },
	},
	"en": {
		months: [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		layout: dayFirst("", ""),
	},
	"sk": {
		months: [12]string{"januára", "februára", "marca", "apríla", "mája", "júna", "júla", "augusta", "septembra", "októbra", "novembra", "decembra"},
		layout: dayFirst(".", ""),
	},
	"ro": {
		months: [12]string{"ianuarie", "februarie", "martie", "aprilie", "mai", "iunie", "iulie", "august", "septembrie", "octombrie", "noiembrie", "decembrie"},
		layout: dayFirst("", ""),
	},
	"de": {
		months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		layout: dayFirst(".", ""),
	},
	"cs": {
		months: [12]string{"ledna", "února", "března", "dubna", "května", "června", "července", "srpna", "září", "října", "listopadu", "prosince"},
		layout: dayFirst(".", ""),
	},
	"hr": {
		months: [12]string{"siječnja", "veljače", "ožujka", "travnja", "svibnja", "lipnja", "srpnja", "kolovoza", "rujna", "listopada", "studenoga", "prosinca"},
		layout: dayFirst(".", "."),
	},
	"sr": {
		months: [12]string{"јануар", "фебруар", "март", "април", "мај", "јун", "јул", "август", "септембар", "октобар", "новембар", "децембар"},
		layout: dayFirst(".", "."),
	},
	"sl": {
		months: [12]string{"januar", "februar", "marec", "april", "maj", "junij", "julij", "avgust", "september", "oktober", "november", "december"},
		layout: dayFirst(".", ""),
	},
}

// FormatDate renders t as a long date in the locale's own layout.
func FormatDate(t time.Time, locale string) string {
	f, ok := dateFormats[Info(locale).Code]
	if !ok {
		f = dateFormats[DefaultLocale]
	}
	return f.layout(t.Day(), f.months[t.Month()-1], t.Year())
}
