package model

// Weather est le résultat du lookup météo par code postal, utilisé
// uniquement pour pré-remplir le champ température (jamais pour valider)
type Weather struct {
	Temperature int    `json:"temperature"` // °F, arrondi
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
