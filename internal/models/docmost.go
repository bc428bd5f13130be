package models

// DocmostPage represents a single page from a Docmost export
type DocmostPage struct {
	Title      string
	FilePath   string // path to the .md file inside the extracted export
	Content    string
	ParentPath string // containing directory, empty for root-level pages
	Parent     *DocmostPage
	Children   []*DocmostPage
	Level      int    // hierarchy depth, 0 = root
	OutlineID  string // set once the document has been created in Outline
}

// DocmostExport represents a fully parsed Docmost ZIP export
type DocmostExport struct {
	SpaceName      string
	RootPages      []*DocmostPage
	AllPages       []*DocmostPage // sorted by (level, title) for breadth-first processing
	AttachmentsDir string         // logical root holding "files" directories
	TempDir        string         // extraction root, removed by parser.Cleanup
}
