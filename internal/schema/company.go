package schema

const (
	SiteName      = "SkinLab Hungary"
	SiteURL       = "https://skinlabhungary.hu"
	CompanyName   = "Skinlab Beauty Equipment Kft."
	Slogan        = "laser&beauty equipment"
	FoundingDate  = "2024"
	Telephone     = "+36704136819"
	Email         = "info@skinlabhungary.hu"
	StreetAddress = "Budai út 28."
	PostalCode    = "2030"
	City          = "Érd"
	Country       = "HU"
	Latitude      = 47.378666588736394
	Longitude     = 18.9253785018499
	PriceRange    = "€€€€"
	BrandName     = "SkinLab"
)

var SameAs = []string{
	"https://facebook.com/skinlabhungary",
	"https://www.instagram.com/skinlabhungary",
	"https://www.tiktok.com/@skinlabhungary",
}
