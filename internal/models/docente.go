package models

import "time"

// Docente represents a teacher who can be assigned to courses.
type Docente struct {
	ID        string `db:"id" json:"id"`
	Apellidos string `db:"apellidos" json:"apellidos"`
	Nombres   string `db:"nombres" json:"nombres"`
	Profesion string `db:"profesion" json:"profesion"`
	// FechaNacimiento is a calendar date rendered as YYYY-MM-DD.
	FechaNacimiento string    `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	Correo          string    `db:"correo" json:"correo"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// NombreCompleto returns "Apellidos, Nombres".
func (d Docente) NombreCompleto() string {
	return d.Apellidos + ", " + d.Nombres
}
