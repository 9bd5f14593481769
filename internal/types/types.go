// Package types holds the data structures shared across the application.
// Keeping them in one place prevents import cycles: handlers, storage and
// validation all import types without depending on each other.
package types

// Person is one contact record as stored in the people table.
type Person struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// PersonForm is the create/update form submission.
//
// schema:"..." names the HTML form field (decoded by gorilla/schema);
// validate:"..." holds the go-playground/validator rules. safename is a
// custom rule registered by the validation package.
type PersonForm struct {
	FirstName string `schema:"fname" validate:"required,max=100,safename"`
	LastName  string `schema:"lname" validate:"required,max=100,safename"`
	Email     string `schema:"email" validate:"required,max=100,email"`
}

// FormFromPerson pre-populates a form from an existing record.
func FormFromPerson(p Person) PersonForm {
	return PersonForm{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// Person converts a validated form into a record without an identifier.
func (f PersonForm) Person() Person {
	return Person{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
	}
}
