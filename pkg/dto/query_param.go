package dto

type Filter struct {
	Page     int    `query:"pageNumber"`
	Keyword  string `query:"keyword"`
	Category string `param:"category"`
}
