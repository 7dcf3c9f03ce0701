package domain

type Currency struct {
	ID   int64
	Code string
}
