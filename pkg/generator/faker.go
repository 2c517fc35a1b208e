package generator

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// epoch anchors generated dates so output does not depend on the clock.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	firstNames = []string{"John", "Jane", "Alex", "Maria", "Sam", "Taylor", "Jordan", "Morgan"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	domains    = []string{"example.com", "test.io", "demo.org"}
	words      = []string{"alpha", "beta", "gamma", "delta", "epsilon", "omega", "sigma", "theta"}
	cities     = []string{"New York", "Chicago", "Houston", "Seattle", "Austin", "Denver", "Boston"}
	countries  = []string{"US", "GB", "CA", "DE", "FR", "JP", "AU"}
	colors     = []string{"Red", "Blue", "Green", "Yellow", "Purple", "Orange", "Teal"}
	currencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF"}
	companies  = []string{"Acme", "Globex", "Initech", "Umbrella", "Stark", "Wayne"}
	streets    = []string{"Main St", "Oak Ave", "Park Blvd", "Cedar Ln", "Elm St"}
)

// byFormat returns a value for a string format, or "" for unknown formats.
func (r *run) byFormat(format string) string {
	switch format {
	case "uuid":
		return r.uuid()
	case "date-time":
		return r.instant().Format(time.RFC3339)
	case "date":
		return r.instant().Format(time.DateOnly)
	case "time":
		return r.instant().Format("15:04:05Z")
	case "email", "idn-email":
		return r.email()
	case "uri", "url", "iri":
		return "https://example.com/" + r.slug()
	case "uri-reference", "iri-reference":
		return "/" + r.slug()
	case "hostname", "idn-hostname":
		return r.pick(words) + ".example.com"
	case "ipv4":
		return r.ipv4()
	case "ipv6":
		return "2001:db8:" + r.hex(4) + ":" + r.hex(4) + ":" + r.hex(4) + ":" + r.hex(4) + ":" + r.hex(4) + ":" + r.hex(4)
	case "byte":
		buf := make([]byte, 6)
		r.fill(buf)
		return base64.StdEncoding.EncodeToString(buf)
	case "binary":
		return r.hex(10)
	case "password":
		return "P@ss" + r.pick(words) + "42!"
	case "phone":
		return r.phone()
	}
	return ""
}

// byFieldName maps common property names to realistic values.
func (r *run) byFieldName(name string) string {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, "email"):
		return r.email()
	case lower == "phone" || lower == "mobile" || strings.HasSuffix(lower, "_phone"):
		return r.phone()
	case lower == "name" || lower == "full_name" || lower == "fullname":
		return r.pick(firstNames) + " " + r.pick(lastNames)
	case lower == "first_name" || lower == "firstname" || lower == "given_name":
		return r.pick(firstNames)
	case lower == "last_name" || lower == "lastname" || lower == "surname":
		return r.pick(lastNames)
	case lower == "username" || lower == "login":
		return strings.ToLower(r.pick(firstNames)) + r.digits(2)
	case lower == "address" || lower == "street":
		return r.digits(4) + " " + r.pick(streets)
	case lower == "company" || lower == "organization":
		return r.pick(companies) + " Inc"
	case lower == "url" || lower == "href" || lower == "link" || lower == "website":
		return "https://example.com/" + r.slug()
	case lower == "city":
		return r.pick(cities)
	case lower == "country":
		return r.pick(countries)
	case lower == "color" || lower == "colour":
		return r.pick(colors)
	case lower == "currency" || lower == "currency_code":
		return r.pick(currencies)
	case lower == "id" || lower == "uuid":
		return r.uuid()
	case lower == "zip" || lower == "zipcode" || lower == "postal_code":
		return r.digits(5)
	case strings.HasSuffix(lower, "_at") || lower == "timestamp" || lower == "created" || lower == "updated":
		return r.instant().Format(time.RFC3339)
	}
	return ""
}

func (r *run) uuid() string {
	id, err := uuid.NewRandomFromReader(rngReader{r})
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}

func (r *run) instant() time.Time {
	return epoch.Add(time.Duration(r.rng.Int64N(365*24*3600)) * time.Second)
}

func (r *run) email() string {
	return strings.ToLower(r.pick(firstNames)) + "." + strings.ToLower(r.pick(lastNames)) + "@" + r.pick(domains)
}

func (r *run) phone() string {
	return "+1-555-" + r.digits(3) + "-" + r.digits(4)
}

func (r *run) ipv4() string {
	parts := make([]string, 4)
	for i := range parts {
		parts[i] = strconv.Itoa(r.rng.IntN(256))
	}
	return strings.Join(parts, ".")
}

func (r *run) slug() string {
	return r.pick(words) + "-" + r.pick(words)
}

func (r *run) pick(list []string) string {
	return list[r.rng.IntN(len(list))]
}

func (r *run) digits(n int) string {
	return r.charset("0123456789", n)
}

func (r *run) hex(n int) string {
	return r.charset("0123456789abcdef", n)
}

func (r *run) letters(n int) string {
	return r.charset("abcdefghijklmnopqrstuvwxyz", n)
}

func (r *run) charset(chars string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = chars[r.rng.IntN(len(chars))]
	}
	return string(buf)
}

func (r *run) fill(buf []byte) {
	for len(buf) >= 8 {
		binary.LittleEndian.PutUint64(buf, r.rng.Uint64())
		buf = buf[8:]
	}
	if len(buf) > 0 {
		var tail [8]byte
		binary.LittleEndian.PutUint64(tail[:], r.rng.Uint64())
		copy(buf, tail[:])
	}
}

// rngReader exposes the run's random source as an io.Reader for uuid.
type rngReader struct{ r *run }

func (rr rngReader) Read(p []byte) (int, error) {
	rr.r.fill(p)
	return len(p), nil
}
