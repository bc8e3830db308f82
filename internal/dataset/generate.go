package dataset

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Value ranges of the generated fields.
const (
	minStudentID = 1
	maxStudentID = 1000
	minDNI       = 10000000
	maxDNI       = 99999999
	minCentreID  = 1
	maxCentreID  = 50
	minAge       = 18
	maxAge       = 30
	minStartYear = 2018
	maxStartYear = 2023
	minEndYear   = 2019
	maxEndYear   = 2024
)

var (
	firstNames = []string{
		"Lucia", "Hugo", "Martina", "Mateo", "Sofia", "Martin", "Paula", "Lucas",
		"Julia", "Leo", "Carmen", "Daniel", "Elena", "Pablo", "Irene", "Alejandro",
		"Marta", "Javier", "Laura", "Diego", "Sara", "Adrian", "Ana", "Alvaro",
	}
	surnames = []string{
		"Garcia", "Rodriguez", "Gonzalez", "Fernandez", "Lopez", "Martinez", "Sanchez",
		"Perez", "Gomez", "Martin", "Jimenez", "Ruiz", "Hernandez", "Diaz", "Moreno",
		"Alvarez", "Romero", "Navarro", "Torres", "Dominguez", "Vazquez", "Ramos",
	}
	streets = []string{
		"Calle Mayor", "Avenida de la Constitucion", "Calle Real", "Paseo del Prado",
		"Calle de Alcala", "Ronda de Valencia", "Plaza de Espana", "Camino Viejo",
	}
	cities = []struct {
		name, province string
		postcode       int
	}{
		{"Madrid", "Madrid", 28001},
		{"Barcelona", "Barcelona", 8001},
		{"Valencia", "Valencia", 46001},
		{"Sevilla", "Sevilla", 41001},
		{"Zaragoza", "Zaragoza", 50001},
		{"Malaga", "Malaga", 29001},
		{"Bilbao", "Vizcaya", 48001},
		{"Valladolid", "Valladolid", 47001},
	}
	countries = []string{
		"Espana", "Portugal", "Francia", "Italia", "Alemania", "Marruecos", "Argentina",
		"Mexico", "Colombia", "Peru", "Chile", "Rumania", "Ecuador", "Reino Unido",
	}
	degrees = []string{
		"Informatica", "Telecomunicacion", "Matematicas", "Fisica", "Quimica", "Biologia",
		"Derecho", "Economia", "Medicina", "Enfermeria", "Arquitectura", "Historia",
	}
	mailDomains = []string{"example.com", "example.org", "example.net"}
)

// Generator produces records from a seeded source. Two generators with the
// same seed and reference date produce identical records.
type Generator struct {
	rng       *rand.Rand
	reference time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithReferenceDate sets the date birth dates are computed from.
// Defaults to the current UTC date.
func WithReferenceDate(t time.Time) GeneratorOption {
	return func(g *Generator) {
		g.reference = t.UTC()
	}
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64, opts ...GeneratorOption) *Generator {
	g := &Generator{
		//nolint:gosec // G404: synthetic data, reproducibility matters more than unpredictability
		rng:       rand.New(rand.NewSource(seed)),
		reference: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reference = time.Date(g.reference.Year(), g.reference.Month(), g.reference.Day(), 0, 0, 0, 0, time.UTC)
	return g
}

// Records generates n records. n <= 0 yields none.
func (g *Generator) Records(n int) []Record {
	if n <= 0 {
		return nil
	}
	records := make([]Record, 0, n)
	for range n {
		records = append(records, g.Record())
	}
	return records
}

// Record generates a single record.
func (g *Generator) Record() Record {
	first := pick(g.rng, firstNames)
	last1 := pick(g.rng, surnames)
	last2 := pick(g.rng, surnames)
	city := cities[g.rng.Intn(len(cities))]

	return Record{
		IDEstudiante:    g.between(minStudentID, maxStudentID),
		DNI:             g.between(minDNI, maxDNI),
		NombreCompleto:  fmt.Sprintf("%s %s %s", first, last1, last2),
		FechaNacimiento: g.birthDate().Format(time.DateOnly),
		Email: fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last1),
			g.rng.Intn(100), pick(g.rng, mailDomains)),
		Telefono: fmt.Sprintf("+34 6%02d %03d %03d", g.rng.Intn(100), g.rng.Intn(1000), g.rng.Intn(1000)),
		Direccion: fmt.Sprintf("%s %d, %05d %s (%s)", pick(g.rng, streets), g.between(1, 200),
			city.postcode+g.rng.Intn(50), city.name, city.province),
		Nacionalidad:   pick(g.rng, countries),
		IDCentro:       g.between(minCentreID, maxCentreID),
		Titulacion:     pick(g.rng, degrees),
		CursoAcademico: fmt.Sprintf("%d-%d", g.between(minStartYear, maxStartYear), g.between(minEndYear, maxEndYear)),
	}
}

// birthDate returns a date on which a person turns between minAge and maxAge
// years old relative to the reference date.
func (g *Generator) birthDate() time.Time {
	latest := g.reference.AddDate(-minAge, 0, 0)
	earliest := g.reference.AddDate(-maxAge-1, 0, 1)
	days := int(latest.Sub(earliest).Hours() / 24)
	return earliest.AddDate(0, 0, g.rng.Intn(days+1))
}

// between returns an integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
