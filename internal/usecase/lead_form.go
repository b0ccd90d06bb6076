package usecase

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phenrril/skinlab/internal/domain"
)

var phoneRe = regexp.MustCompile(`^(\+|00)?[1-9][0-9]{0,3}[ -]?[0-9]{1,4}[ -]?[0-9]{2,4}[ -]?[0-9]{2,6}$`)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Field errors are reported under the form field name.
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	Validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	Validate.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
}

// LeadFields are the inputs shared by every lead form.
type LeadFields struct {
	Name          string `schema:"name" validate:"min=2"`
	Email         string `schema:"email" validate:"required,email"`
	Phone         string `schema:"phone" validate:"phone"`
	Product       string `schema:"product" validate:"required"`
	GDPRConsent   string `schema:"gdprConsent" validate:"eq=true"`
	GDPRTimestamp string `schema:"gdprTimestamp" validate:"rfc3339"`
	CaptchaToken  string `schema:"cf-turnstile-response" validate:"required"`
	SourceURL     string `schema:"sourceUrl" validate:"required,url"`
	UTMSource     string `schema:"utmSource"`
	UTMMedium     string `schema:"utmMedium"`
	UTMCampaign   string `schema:"utmCampaign"`

	// Anti-automation inputs, checked before validation.
	Honeypot      string `schema:"honeypot"`
	FormStartTime string `schema:"formStartTime"`
}

type ContactForm struct {
	LeadFields
	Message string `schema:"message" validate:"max=2000"`
}

type ConsultationForm struct {
	LeadFields
	Timeline     string `schema:"timeline" validate:"oneof=asap 1-3-month 3-6-month just-looking"`
	BusinessType string `schema:"businessType" validate:"oneof=running-salon opening-soon home-service no-business"`
	Experience   string `schema:"experience" validate:"oneof=regular tried trained beginner"`
}

// LeadForm is a decoded submission of either form.
type LeadForm interface {
	Kind() domain.FormKind
	Fields() *LeadFields
	lead() domain.Lead
}

func (f *ContactForm) Kind() domain.FormKind { return domain.FormContact }

func (f *ContactForm) Fields() *LeadFields { return &f.LeadFields }

func (f *ContactForm) lead() domain.Lead {
	l := f.LeadFields.lead()
	l.Message = f.Message
	return l
}

func (f *ConsultationForm) Kind() domain.FormKind { return domain.FormConsultation }

func (f *ConsultationForm) Fields() *LeadFields { return &f.LeadFields }

func (f *ConsultationForm) lead() domain.Lead {
	l := f.LeadFields.lead()
	l.Timeline = f.Timeline
	l.BusinessType = f.BusinessType
	l.Experience = f.Experience
	l.Message = f.Timeline + " / " + f.BusinessType + " / " + f.Experience
	return l
}

func (f *LeadFields) lead() domain.Lead {
	return domain.Lead{
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		Product:       f.Product,
		SourceURL:     f.SourceURL,
		GDPRConsent:   f.GDPRConsent == "true",
		GDPRTimestamp: f.GDPRTimestamp,
		UTMSource:     f.UTMSource,
		UTMMedium:     f.UTMMedium,
		UTMCampaign:   f.UTMCampaign,
	}
}

var fieldMessages = map[string]string{
	"name":                  "A név megadása kötelező",
	"email":                 "Érvényes email cím szükséges",
	"phone":                 "Érvényes telefonszám szükséges",
	"message":               "Az üzenet legfeljebb 2000 karakter lehet",
	"gdprConsent":           "Az adatvédelmi hozzájárulás kötelező",
	"gdprTimestamp":         "Érvénytelen időbélyeg",
	"cf-turnstile-response": "CAPTCHA ellenőrzés szükséges",
	"sourceUrl":             "Érvénytelen forrás URL",
	"timeline":              "Válasszon időzítést",
	"businessType":          "Válasszon vállalkozás típust",
	"experience":            "Válasszon tapasztalati szintet",
}

var productMessages = map[domain.FormKind]string{
	domain.FormContact:      "Válassz kategóriát",
	domain.FormConsultation: "Válasszon kategóriát",
}

// validateForm runs the struct rules and turns failures into Hungarian
// field messages.
func validateForm(f LeadForm) error {
	err := Validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := fieldMessages[field]
		if field == "product" {
			msg, ok = productMessages[f.Kind()]
		}
		if !ok {
			msg = "Érvénytelen érték"
		}
		out.Add(field, msg)
	}
	return out
}
