package model

// FieldRecord is one spreadsheet row feeding a letter.
type FieldRecord struct {
	Numero       string `json:"numero"`
	NomeCompleto string `json:"nome_completo"`
	Data1        string `json:"data1"`
	Data2        string `json:"data2"`
}

// DateRow is one row of the date table: a name and two dd/mm dates.
type DateRow struct {
	NomeCompleto string `json:"nome_completo"`
	Data1        string `json:"data1"`
	Data2        string `json:"data2"`
}
