package store

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"

	DefaultSchoolName = "EduPulse International"
)

// Document is the whole persisted state. It is always read and written in full.
type Document struct {
	Admins   []Admin   `json:"admins"`
	Students []Student `json:"students"`
	Settings Settings  `json:"settings"`
}

type Admin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Student is a portal student. PasswordHash is empty for federated-only accounts.
type Student struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	StudentID    string    `json:"studentId"`
	PasswordHash string    `json:"password,omitempty"`
	GoogleID     string    `json:"googleId,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Settings struct {
	SchoolName string `json:"school_name"`
	// Notice is markdown shown on the portal landing page.
	Notice string `json:"notice,omitempty"`
}

func NewDocument() Document {
	return Document{
		Admins:   []Admin{},
		Students: []Student{},
		Settings: Settings{SchoolName: DefaultSchoolName},
	}
}

// normalize fills the gaps a hand-edited or older document may have.
func (d *Document) normalize() {
	if d.Admins == nil {
		d.Admins = []Admin{}
	}
	if d.Students == nil {
		d.Students = []Student{}
	}
	if d.Settings.SchoolName == "" {
		d.Settings.SchoolName = DefaultSchoolName
	}
}

// Clone returns a copy that shares no slices with d.
func (d Document) Clone() Document {
	out := d
	out.Admins = append([]Admin(nil), d.Admins...)
	out.Students = append([]Student(nil), d.Students...)
	out.normalize()
	return out
}

// NormalizeEmail is the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Document) AdminByEmail(email string) *Admin {
	key := NormalizeEmail(email)
	for i := range d.Admins {
		if NormalizeEmail(d.Admins[i].Email) == key {
			return &d.Admins[i]
		}
	}
	return nil
}

func (d *Document) AdminByID(id int64) *Admin {
	for i := range d.Admins {
		if d.Admins[i].ID == id {
			return &d.Admins[i]
		}
	}
	return nil
}

func (d *Document) StudentByEmail(email string) *Student {
	key := NormalizeEmail(email)
	for i := range d.Students {
		if NormalizeEmail(d.Students[i].Email) == key {
			return &d.Students[i]
		}
	}
	return nil
}

func (d *Document) StudentByID(id int64) *Student {
	for i := range d.Students {
		if d.Students[i].ID == id {
			return &d.Students[i]
		}
	}
	return nil
}

// NextAdminID returns the creation timestamp in milliseconds, bumped past the
// newest admin so ids stay increasing within the collection.
func (d *Document) NextAdminID(now time.Time) int64 {
	id := now.UnixMilli()
	if n := len(d.Admins); n > 0 && d.Admins[n-1].ID >= id {
		id = d.Admins[n-1].ID + 1
	}
	return id
}

func (d *Document) NextStudentID(now time.Time) int64 {
	id := now.UnixMilli()
	if n := len(d.Students); n > 0 && d.Students[n-1].ID >= id {
		id = d.Students[n-1].ID + 1
	}
	return id
}
