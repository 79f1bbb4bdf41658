package purge

// Tipos de raíz admitidos por el planificador de borrado.
const (
	KindInstitution   = "INSTITUTION"
	KindEstablishment = "ESTABLISHMENT"
	KindDependency    = "DEPENDENCY"
	KindUser          = "USER"
)

// parentRef es una arista del grafo de dependencias: la tabla hija referencia
// a parentTable por fkColumn.
type parentRef struct {
	parentTable string
	fkColumn    string
}

// tableNode es un nodo del grafo de entidades: tabla, categoría del resumen
// y las claves foráneas que la cuelgan de sus padres.
type tableNode struct {
	category string
	table    string
	parents  []parentRef
}

// purgeGraph declara el grafo completo de dependencias referenciales en orden
// topológico padres-primero. La recolección recorre la lista hacia adelante;
// la purga la recorre en reversa (hijos antes que padres).
var purgeGraph = []tableNode{
	{category: "institutions", table: "institutions"},
	{category: "establishments", table: "establishments", parents: []parentRef{
		{"institutions", "institution_id"},
	}},
	{category: "dependencies", table: "dependencies", parents: []parentRef{
		{"establishments", "establishment_id"},
	}},
	{category: "users", table: "users", parents: []parentRef{
		{"institutions", "institution_id"},
		{"establishments", "establishment_id"},
	}},
	{category: "assetSequences", table: "asset_sequences", parents: []parentRef{
		{"institutions", "institution_id"},
	}},
	{category: "assets", table: "assets", parents: []parentRef{
		{"establishments", "establishment_id"},
		{"dependencies", "dependency_id"},
	}},
	{category: "movements", table: "movements", parents: []parentRef{
		{"assets", "asset_id"},
	}},
	{category: "evidences", table: "asset_evidences", parents: []parentRef{
		{"assets", "asset_id"},
	}},
	{category: "audits", table: "asset_audits", parents: []parentRef{
		{"assets", "asset_id"},
	}},
	{category: "refreshTokens", table: "refresh_tokens", parents: []parentRef{
		{"users", "user_id"},
	}},
	{category: "loginAudits", table: "login_audits", parents: []parentRef{
		{"users", "user_id"},
	}},
	{category: "adminAudits", table: "admin_audits", parents: []parentRef{
		{"users", "user_id"},
	}},
	{category: "userPhotos", table: "user_photos", parents: []parentRef{
		{"users", "user_id"},
	}},
	{category: "importBatches", table: "import_batches", parents: []parentRef{
		{"users", "user_id"},
	}},
	{category: "supportRequests", table: "support_requests", parents: []parentRef{
		{"users", "user_id"},
	}},
	{category: "supportComments", table: "support_comments", parents: []parentRef{
		{"support_requests", "support_request_id"},
	}},
}

// rootTable mapea el tipo de raíz a su tabla.
var rootTable = map[string]string{
	KindInstitution:   "institutions",
	KindEstablishment: "establishments",
	KindDependency:    "dependencies",
	KindUser:          "users",
}
