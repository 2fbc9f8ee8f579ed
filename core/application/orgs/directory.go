package orgs

type org struct {
	uid     string
	label   string
	aliases []string
}

// directory lists the most frequently queried publishing bodies.
// Aliases are matched after lowercasing; order matters for substring ties.
var directory = []org{
	// Municipalities
	{"6105", "ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ", []string{"δήμος αθηναίων", "δήμος αθήνας", "athens municipality", "αθήνα", "athens", "δήμος αθηνών"}},
	{"6127", "ΔΗΜΟΣ ΘΕΣΣΑΛΟΝΙΚΗΣ", []string{"δήμος θεσσαλονίκης", "thessaloniki municipality", "θεσσαλονίκη", "thessaloniki", "σαλονίκη"}},
	{"6144", "ΔΗΜΟΣ ΠΕΙΡΑΙΩΣ", []string{"δήμος πειραιά", "δήμος πειραιώς", "piraeus municipality", "πειραιάς", "piraeus"}},
	{"6154", "ΔΗΜΟΣ ΠΑΤΡΕΩΝ", []string{"δήμος πατρέων", "δήμος πάτρας", "patras municipality", "πάτρα", "patras"}},
	{"6148", "ΔΗΜΟΣ ΗΡΑΚΛΕΙΟΥ ΚΡΗΤΗΣ", []string{"δήμος ηρακλείου", "heraklion municipality", "ηράκλειο", "heraklion"}},
	{"6164", "ΔΗΜΟΣ ΛΑΡΙΣΑΙΩΝ", []string{"δήμος λαρισαίων", "δήμος λάρισας", "larissa municipality", "λάρισα", "larissa"}},
	{"6184", "ΔΗΜΟΣ ΒΟΛΟΥ", []string{"δήμος βόλου", "volos municipality", "βόλος", "volos"}},
	{"6137", "ΔΗΜΟΣ ΙΩΑΝΝΙΤΩΝ", []string{"δήμος ιωαννιτών", "δήμος ιωαννίνων", "ioannina municipality", "ιωάννινα", "γιάννενα", "ioannina"}},
	{"6183", "ΔΗΜΟΣ ΤΡΙΚΚΑΙΩΝ", []string{"δήμος τρικκαίων", "δήμος τρικάλων", "trikala municipality", "τρίκαλα", "trikala"}},
	{"6156", "ΔΗΜΟΣ ΧΑΝΙΩΝ", []string{"δήμος χανίων", "chania municipality", "χανιά", "chania"}},
	{"6174", "ΔΗΜΟΣ ΚΑΒΑΛΑΣ", []string{"δήμος καβάλας", "kavala municipality", "καβάλα", "kavala"}},
	{"6169", "ΔΗΜΟΣ ΚΑΛΑΜΑΤΑΣ", []string{"δήμος καλαμάτας", "kalamata municipality", "καλαμάτα", "kalamata"}},
	{"6115", "ΔΗΜΟΣ ΚΗΦΙΣΙΑΣ", []string{"δήμος κηφισιάς", "kifisia municipality", "κηφισιά", "kifisia"}},
	{"6110", "ΔΗΜΟΣ ΜΑΡΟΥΣΙΟΥ", []string{"δήμος αμαρουσίου", "δήμος μαρουσίου", "marousi municipality", "μαρούσι", "αμαρούσιο", "marousi"}},
	{"6120", "ΔΗΜΟΣ ΓΛΥΦΑΔΑΣ", []string{"δήμος γλυφάδας", "glyfada municipality", "γλυφάδα", "glyfada"}},
	{"6158", "ΔΗΜΟΣ ΡΟΔΟΥ", []string{"δήμος ρόδου", "rhodes municipality", "ρόδος", "rhodes"}},
	{"6175", "ΔΗΜΟΣ ΚΕΡΚΥΡΑΣ", []string{"δήμος κέρκυρας", "corfu municipality", "κέρκυρα", "corfu"}},

	// Ministries
	{"100015966", "ΥΠΟΥΡΓΕΙΟ ΠΟΛΙΤΙΣΜΟΥ ΚΑΙ ΑΘΛΗΤΙΣΜΟΥ", []string{"υπουργείο πολιτισμού", "ministry of culture", "πολιτισμός", "αθλητισμός"}},
	{"100003788", "ΥΠΟΥΡΓΕΙΟ ΠΑΙΔΕΙΑΣ", []string{"υπουργείο παιδείας", "ministry of education", "παιδεία", "εκπαίδευση", "education"}},
	{"100003831", "ΥΠΟΥΡΓΕΙΟ ΥΓΕΙΑΣ", []string{"υπουργείο υγείας", "ministry of health", "υγεία", "health"}},
	{"100003836", "ΥΠΟΥΡΓΕΙΟ ΟΙΚΟΝΟΜΙΚΩΝ", []string{"υπουργείο οικονομικών", "ministry of finance", "οικονομικά", "finance"}},
	{"100003839", "ΥΠΟΥΡΓΕΙΟ ΕΣΩΤΕΡΙΚΩΝ", []string{"υπουργείο εσωτερικών", "ministry of interior", "εσωτερικά", "interior"}},
	{"100003846", "ΥΠΟΥΡΓΕΙΟ ΕΘΝΙΚΗΣ ΑΜΥΝΑΣ", []string{"υπουργείο εθνικής άμυνας", "ministry of defense", "άμυνα", "στρατός", "defense"}},

	// Regions
	{"100005747", "ΠΕΡΙΦΕΡΕΙΑ ΑΤΤΙΚΗΣ", []string{"περιφέρεια αττικής", "attica region", "αττική", "attica"}},
	{"100005752", "ΠΕΡΙΦΕΡΕΙΑ ΚΕΝΤΡΙΚΗΣ ΜΑΚΕΔΟΝΙΑΣ", []string{"περιφέρεια κεντρικής μακεδονίας", "central macedonia region", "κεντρική μακεδονία"}},
	{"100005760", "ΠΕΡΙΦΕΡΕΙΑ ΚΡΗΤΗΣ", []string{"περιφέρεια κρήτης", "crete region", "κρήτη", "crete"}},

	// Public entities
	{"99222376", "ΕΦΚΑ", []string{"εφκα", "efka", "ασφαλιστικό ταμείο", "κοινωνική ασφάλιση", "social insurance"}},
	{"100012982", "ΕΡΤ Α.Ε.", []string{"ερτ", "ert", "ελληνική ραδιοφωνία τηλεόραση", "greek broadcasting"}},
	{"99206919", "ΟΑΕΔ / ΔΥΠΑ", []string{"οαεδ", "δυπα", "dypa", "oaed", "δημόσια υπηρεσία απασχόλησης", "employment agency"}},
}
