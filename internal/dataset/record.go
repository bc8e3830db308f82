package dataset

// Object names of the encoded datasets under their key prefixes.
const (
	CSVFileName  = "datos_practicas.csv"
	JSONFileName = "datos_practicas.json"
)

// Record is one student internship entry.
type Record struct {
	IDEstudiante    int    `json:"id_estudiante"`
	DNI             int    `json:"dni"`
	NombreCompleto  string `json:"nombre_completo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Email           string `json:"email"`
	Telefono        string `json:"telefono"`
	Direccion       string `json:"direccion"`
	Nacionalidad    string `json:"nacionalidad"`
	IDCentro        int    `json:"id_centro"`
	Titulacion      string `json:"titulacion"`
	CursoAcademico  string `json:"curso_academico"`
}

// Column is a table column as declared in the external table DDL.
type Column struct {
	Name string
	Type string
}

// Columns lists the record fields in file order.
var Columns = []Column{
	{"id_estudiante", "INT"},
	{"dni", "INT"},
	{"nombre_completo", "STRING"},
	{"fecha_nacimiento", "STRING"},
	{"email", "STRING"},
	{"telefono", "STRING"},
	{"direccion", "STRING"},
	{"nacionalidad", "STRING"},
	{"id_centro", "INT"},
	{"titulacion", "STRING"},
	{"curso_academico", "STRING"},
}
