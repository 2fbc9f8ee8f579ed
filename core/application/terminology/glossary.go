package terminology

// Term is a piece of Greek administrative vocabulary with its English meaning
// and, when one exists, a filter the generator can reuse.
type Term struct {
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
	SQLHint string `json:"sql_hint,omitempty"`
}

var glossary = []Term{
	// Decision types
	{"έγκριση δαπάνης", "expenditure approval decision", "subject ILIKE '%ΕΓΚΡΙΣ%ΔΑΠΑΝ%'"},
	{"ανάληψη υποχρέωσης", "budget commitment / obligation", "subject ILIKE '%ΑΝΑΛΗΨ%ΥΠΟΧΡΕΩΣ%'"},
	{"σύμβαση", "contract / agreement", "subject ILIKE '%ΣΥΜΒΑΣ%'"},
	{"διακήρυξη", "procurement notice / tender announcement", "subject ILIKE '%ΔΙΑΚΗΡΥΞ%'"},
	{"κατακύρωση", "contract award decision", "subject ILIKE '%ΚΑΤΑΚΥΡΩΣ%'"},
	{"χρηματικό ένταλμα", "payment warrant / payment order", "subject ILIKE '%ΧΡΗΜΑΤΙΚ%ΕΝΤΑΛΜ%'"},
	{"προϋπολογισμός", "budget", ""},

	// Procurement methods
	{"απευθείας ανάθεση", "direct award without competitive tender", "subject ILIKE '%ΑΠΕΥΘΕΙΑΣ%ΑΝΑΘΕΣ%'"},
	{"ανοιχτός διαγωνισμός", "open tender / competitive procurement", "subject ILIKE '%ΑΝΟΙΧΤ%ΔΙΑΓΩΝΙΣΜ%'"},
	{"συνοπτικός διαγωνισμός", "simplified tender (€30k-€60k range)", "subject ILIKE '%ΣΥΝΟΠΤΙΚ%ΔΙΑΓΩΝΙΣΜ%'"},
	{"πρόχειρος διαγωνισμός", "simplified tender (older term)", "subject ILIKE '%ΠΡΟΧΕΙΡ%ΔΙΑΓΩΝΙΣΜ%'"},

	// Spending categories
	{"μίσθωση", "rental / lease", "subject ILIKE '%ΜΙΣΘΩΣ%'"},
	{"προμήθεια", "procurement / supply of goods", "subject ILIKE '%ΠΡΟΜΗΘΕΙ%'"},
	{"υπηρεσία", "service provision", "subject ILIKE '%ΥΠΗΡΕΣΙ%'"},
	{"έργο", "public works / construction project", "subject ILIKE '%ΕΡΓΟ%' OR subject ILIKE '%ΕΡΓΑΣΙ%'"},
	{"μελέτη", "study / consultancy", "subject ILIKE '%ΜΕΛΕΤ%'"},
	{"συντήρηση", "maintenance", "subject ILIKE '%ΣΥΝΤΗΡΗΣ%'"},
	{"φύλαξη", "security / guarding services", "subject ILIKE '%ΦΥΛΑΞ%'"},
	{"μεταφορά", "transport / transfer", "subject ILIKE '%ΜΕΤΑΦΟΡ%'"},

	// Identifiers and budget codes
	{"καε", "KAE = budget account code (Κωδικός Αριθμός Εξόδων)", "kae_code is the budget classification field in expense_items"},
	{"αλε", "ALE = revenue/expense classification code (Αναλυτική Λογιστική Εξόδων)", "kae_code field (ALE codes are stored in the same field)"},
	{"αφμ", "AFM = Tax ID number (Αριθμός Φορολογικού Μητρώου)", "contractor_afm or org_afm field"},
	{"αδα", "ADA = unique decision ID on Diavgeia (Αριθμός Διαδικτυακής Ανάρτησης)", "ada field in decisions table"},
}

// BudgetCode is a KAE budget classification prefix.
type BudgetCode struct {
	Prefix        string
	DescriptionGR string
	DescriptionEN string
	Keywords      string
}

var budgetCodes = []BudgetCode{
	{"0200", "Αμοιβές υπαλλήλων", "Employee salaries", "μισθοί αμοιβές υπάλληλοι προσωπικό"},
	{"0400", "Εργοδοτικές εισφορές", "Employer contributions", "εισφορές ασφάλιση εργοδοτικές"},
	{"0800", "Πληρωμές για υπηρεσίες", "Service payments", "υπηρεσίες αμοιβές τρίτων"},
	{"0831", "Μεταφορές", "Transport services", "μεταφορά μεταφορές"},
	{"0851", "Συντήρηση κτιρίων", "Building maintenance", "συντήρηση κτίρια επισκευή"},
	{"0861", "Συντήρηση οχημάτων", "Vehicle maintenance", "οχήματα αυτοκίνητα συντήρηση"},
	{"0869", "Συντήρηση λοιπού εξοπλισμού", "Equipment maintenance", "εξοπλισμός συντήρηση"},
	{"1000", "Προμήθειες", "Supplies/procurement", "προμήθεια αγορά υλικά"},
	{"1111", "Γραφική ύλη", "Office supplies", "γραφική ύλη χαρτί τόνερ"},
	{"1211", "Καύσιμα", "Fuel", "καύσιμα βενζίνη πετρέλαιο"},
	{"1311", "Ηλεκτρικό ρεύμα", "Electricity", "ηλεκτρικό ρεύμα ΔΕΗ"},
	{"1321", "Τηλεπικοινωνίες", "Telecommunications", "τηλέφωνο internet τηλεπικοινωνίες"},
	{"1511", "Ιατροφαρμακευτική περίθαλψη", "Medical care", "ιατρικά φάρμακα νοσοκομείο"},
	{"1700", "Μισθώματα", "Rental payments", "ενοίκιο μίσθωμα μίσθωση"},
	{"5000", "Δαπάνες δημοσίων επενδύσεων", "Public investment spending", "επένδυση δημόσια έργα"},
	{"6000", "Πληρωμές δανείων", "Loan payments", "δάνειο τόκοι αποπληρωμή"},
	{"7000", "Αποθεματικά", "Reserves", "αποθεματικό έκτακτα"},
}

// DecisionType is a Diavgeia decision classification.
type DecisionType struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

var decisionTypes = []DecisionType{
	{"Β.1.3", "Ανάληψη Υποχρέωσης (Budget Commitment)"},
	{"Β.2.1", "Έγκριση Δαπάνης (Expenditure Approval)"},
	{"Β.2.2", "Εντολή Πληρωμής (Payment Order)"},
	{"Δ.1", "Σύμβαση (Contract)"},
	{"Δ.2", "Διακήρυξη (Tender Notice)"},
	{"Δ.3", "Κατακύρωση (Contract Award)"},
}
