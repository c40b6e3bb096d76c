package models

import "encoding/json"

// Soknad is an application as received from the application front end. Data
// is stored verbatim.
type Soknad struct {
	SoknadID     string
	FnrBruker    string
	FnrInnsender string
	Data         json.RawMessage
}
