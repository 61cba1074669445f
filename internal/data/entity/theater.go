package entity

type Theater struct {
	Base
	Name     string `db:"name"`
	Location string `db:"location"`
}
