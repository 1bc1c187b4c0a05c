package models

// DisposalRecord is one line of the Form 2086 disposal schedule: a single
// taxable Sell with every statutory field computed. Line numbers follow the
// official form (cadre 2, lignes 211-223).
type DisposalRecord struct {
	Seq      int     `json:"numero"`
	Date     string  `json:"date"` // DD/MM/YYYY
	Asset    Asset   `json:"crypto"`
	Quantity float64 `json:"quantite"`
	Line211  string  `json:"ligne211"` // date de cession
	Line212  float64 `json:"ligne212"` // prix de cession
	Line213  float64 `json:"ligne213"` // prix total d'acquisition (PAMP x quantite)
	Line214  float64 `json:"ligne214"` // frais d'acquisition (toujours 0)
	Line215  float64 `json:"ligne215"` // 213 + 214
	Line216  float64 `json:"ligne216"` // frais de cession
	Line217  float64 `json:"ligne217"` // 212 - 216
	Line218  float64 `json:"ligne218"` // report de la ligne 215
	Line220  float64 `json:"ligne220"` // soulte (toujours 0)
	Line221  float64 `json:"ligne221"` // plus ou moins-value brute (217 - 218)
	Line222  float64 `json:"ligne222"` // moins-value
	Line223  float64 `json:"ligne223"` // plus-value nette
}

// Form2086Report is the full disposal schedule for one tax year. The two
// totals mirror the form's 3VK/3VL boxes and are reported independently,
// never netted against each other.
type Form2086Report struct {
	Year      int              `json:"annee"`
	Disposals []DisposalRecord `json:"cessions"`
	Line3VK   float64          `json:"ligne3VK"` // total plus-values nettes
	Line3VL   float64          `json:"ligne3VL"` // total moins-values
}
