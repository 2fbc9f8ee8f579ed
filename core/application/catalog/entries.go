package catalog

// entry is one curated CPV category: code, English and Greek descriptions,
// then space-separated Greek and English keywords.
type entry struct {
	code string
	en   string
	gr   string
	kwGR string
	kwEN string
}

// entries holds the categories that dominate Diavgeia expense items.
var entries = []entry{
	// Cleaning and waste
	{"90910000", "Cleaning services", "Υπηρεσίες καθαρισμού", "καθαριότητα καθαρισμός σκούπισμα", "cleaning janitorial sweeping"},
	{"90911000", "Housing and building cleaning", "Καθαρισμός κατοικιών και κτιρίων", "καθαρισμός κτιρίων γραφείων", "building cleaning office cleaning"},
	{"90919000", "Office and school cleaning", "Καθαρισμός γραφείων και σχολείων", "καθαρισμός σχολείων γραφείων", "school cleaning office cleaning"},
	{"90500000", "Refuse and waste services", "Υπηρεσίες σχετιζόμενες με απορρίμματα", "απορρίμματα σκουπίδια ανακύκλωση αποκομιδή", "waste garbage recycling refuse collection"},
	{"90600000", "Street cleaning", "Υπηρεσίες καθαρισμού οδών", "καθαρισμός δρόμων οδών πλατειών", "street cleaning road cleaning"},

	// Road works and construction
	{"45233141", "Road-maintenance works", "Εργασίες συντήρησης οδών", "συντήρηση δρόμων οδών επισκευή δρόμου ασφαλτόστρωση", "road maintenance road repair asphalt paving"},
	{"45233142", "Road-repair works", "Εργασίες επισκευής οδών", "επισκευή δρόμου αποκατάσταση οδού", "road repair road restoration"},
	{"45233120", "Road construction", "Κατασκευή οδών", "κατασκευή δρόμου νέος δρόμος", "road construction new road building"},
	{"45000000", "Construction work", "Κατασκευαστικές εργασίες", "κατασκευή οικοδομή εργοτάξιο", "construction building works"},
	{"45454000", "Restructuring work", "Εργασίες αναδιάρθρωσης", "ανακαίνιση αναδιάρθρωση μετατροπή", "renovation restructuring conversion"},

	// IT
	{"72000000", "IT services", "Υπηρεσίες τεχνολογίας πληροφοριών", "πληροφορική IT τεχνολογία λογισμικό", "IT technology software computing"},
	{"72200000", "Software programming", "Προγραμματισμός λογισμικού", "προγραμματισμός λογισμικό ανάπτυξη εφαρμογών", "programming software development applications"},
	{"72400000", "Internet services", "Υπηρεσίες διαδικτύου", "διαδίκτυο internet ιστοσελίδα website", "internet web website hosting"},
	{"30200000", "Computer equipment", "Εξοπλισμός ηλεκτρονικών υπολογιστών", "υπολογιστές laptop εκτυπωτής οθόνη", "computers laptop printer monitor hardware"},
	{"48000000", "Software packages", "Πακέτα λογισμικού", "λογισμικό πρόγραμμα άδεια license", "software package license"},

	// Consulting and professional services
	{"79400000", "Business consulting", "Υπηρεσίες παροχής επιχειρηματικών συμβουλών", "σύμβουλος συμβουλευτική μελέτη consulting", "consulting advisory study business"},
	{"79200000", "Accounting services", "Λογιστικές υπηρεσίες", "λογιστής λογιστικά λογιστικές υπηρεσίες", "accounting accountant bookkeeping"},
	{"79100000", "Legal services", "Νομικές υπηρεσίες", "νομικός δικηγόρος νομική υπηρεσία", "legal lawyer attorney law"},
	{"79340000", "Advertising services", "Υπηρεσίες διαφήμισης", "διαφήμιση προβολή μάρκετινγκ", "advertising marketing promotion"},

	// Fuel, energy and water
	{"09100000", "Fuels", "Καύσιμα", "καύσιμα βενζίνη πετρέλαιο diesel", "fuel petrol diesel gasoline"},
	{"09300000", "Electricity and heating", "Ηλεκτρισμός και θέρμανση", "ηλεκτρικό ρεύμα θέρμανση ενέργεια ΔΕΗ", "electricity heating energy power"},
	{"65100000", "Water distribution", "Διανομή νερού", "νερό ύδρευση ΕΥΔΑΠ", "water supply distribution"},

	// Medical
	{"33000000", "Medical equipment", "Ιατρικά είδη", "ιατρικά υγειονομικά νοσοκομείο φάρμακα", "medical health hospital pharmaceutical"},
	{"33600000", "Pharmaceutical products", "Φαρμακευτικά προϊόντα", "φάρμακα φαρμακευτικά", "pharmaceutical drugs medicine"},
	{"85100000", "Health services", "Υπηρεσίες υγείας", "υγεία υγειονομικές υπηρεσίες ιατρικές", "health services medical care"},

	// Office supplies and printing
	{"30190000", "Office equipment", "Εξοπλισμός γραφείου", "γραφείο αναλώσιμα γραφική ύλη", "office supplies stationery equipment"},
	{"22000000", "Printed matter", "Έντυπα", "εκτύπωση έντυπα βιβλία τυπογραφείο", "printing publications books print"},
	{"30125110", "Toner for printers", "Τόνερ εκτυπωτών", "τόνερ μελάνι εκτυπωτής αναλώσιμα εκτύπωσης", "toner ink printer consumables cartridge"},

	// Transport
	{"60000000", "Transport services", "Υπηρεσίες μεταφορών", "μεταφορά μεταφορές δρομολόγια", "transport transportation logistics"},
	{"34000000", "Motor vehicles", "Μηχανοκίνητα οχήματα", "αυτοκίνητο όχημα αγορά οχήματος", "vehicle car motor purchase"},
	{"50100000", "Vehicle repair", "Επισκευή οχημάτων", "επισκευή οχήματος συντήρηση αυτοκινήτου", "vehicle repair car maintenance"},

	// Food and catering
	{"55300000", "Restaurant and catering", "Υπηρεσίες εστιατορίου και σίτισης", "σίτιση τροφοδοσία catering γεύματα", "catering meals food service restaurant"},
	{"15000000", "Food products", "Τρόφιμα", "τρόφιμα φαγητό τροφοδοσία", "food products provisions"},

	// Security
	{"79710000", "Security services", "Υπηρεσίες ασφαλείας", "ασφάλεια φύλαξη security φρουρά", "security guard protection surveillance"},

	// Telecommunications
	{"64200000", "Telecommunications", "Τηλεπικοινωνίες", "τηλεπικοινωνίες τηλέφωνο κινητό internet", "telecommunications telephone mobile phone"},

	// Education
	{"80000000", "Education services", "Υπηρεσίες εκπαίδευσης", "εκπαίδευση κατάρτιση σεμινάριο μάθημα", "education training seminar course"},

	// Green spaces
	{"77300000", "Horticultural services", "Υπηρεσίες κηπουρικής", "πράσινο κηπουρική δέντρα φυτά συντήρηση πρασίνου", "gardening horticulture trees plants green maintenance"},
	{"77310000", "Planting and maintenance", "Φύτευση και συντήρηση χώρων πρασίνου", "φύτευση πάρκα πράσινο", "planting parks green spaces"},

	// Insurance
	{"66500000", "Insurance services", "Ασφαλιστικές υπηρεσίες", "ασφάλεια ασφάλιση ασφαλιστήριο", "insurance coverage policy"},

	// Real estate
	{"70000000", "Real estate services", "Υπηρεσίες ακίνητης περιουσίας", "ενοίκιο μίσθωμα ακίνητο κτίριο στέγαση", "rent lease real estate building housing"},

	// Culture and events
	{"92000000", "Recreational and cultural services", "Υπηρεσίες αναψυχής και πολιτισμού", "πολιτισμός εκδήλωση φεστιβάλ συναυλία θέατρο", "culture events festival concert theatre"},
}

// stopwords never count toward a category score.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"show", "top", "by", "total", "amount", "the", "a", "an", "in",
		"on", "of", "to", "for", "and", "or", "is", "are", "was", "how",
		"many", "much", "what", "which", "who", "from", "with", "all",
		"list", "give", "me", "find", "get", "display", "results",
		"contractors", "organizations", "decisions", "spending", "database",
		"ποιοι", "πόσο", "πόσες", "ποια", "τι", "από", "στο", "στη",
		"στον", "στην", "και", "για", "με", "τον", "την", "της", "του",
		"είναι", "δαπάνη", "δαπάνες", "αποφάσεις", "οργανισμοί",
		"ανάδοχοι", "εργολάβοι", "σύνολο", "συνολική", "βάση",
	} {
		stopwords[w] = struct{}{}
	}
}
