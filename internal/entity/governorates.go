package entity

// Governorates is the fixed set of valid Tunisian governorates a listing
// can be located in.
var Governorates = []string{
	"Ariana",
	"Béja",
	"Ben Arous",
	"Bizerte",
	"Gabès",
	"Gafsa",
	"Jendouba",
	"Kairouan",
	"Kasserine",
	"Kébili",
	"Kef",
	"Mahdia",
	"Manouba",
	"Médenine",
	"Monastir",
	"Nabeul",
	"Sfax",
	"Sidi Bouzid",
	"Siliana",
	"Sousse",
	"Tataouine",
	"Tozeur",
	"Tunis",
	"Zaghouan",
}

var governorateSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Governorates))
	for _, g := range Governorates {
		m[g] = struct{}{}
	}
	return m
}()

func IsValidGovernorate(name string) bool {
	_, ok := governorateSet[name]
	return ok
}
