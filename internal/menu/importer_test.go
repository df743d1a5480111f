package menu

import (
	"encoding/json"
	"reflect"
	"testing"

	"tgmenued/internal/graph"
)

func TestImportRejectsMalformedJSON(t *testing.T) {
	s := newEditorStore()
	s.AddMenuItem(graph.Point{}, "pre-existing")
	for _, bad := range []string{
		"{not json",
		`[1, 2, 3]`,
		`{"main_menu": 5}`,
		`{"main_menu": [{"text": 42}]}`,
	} {
		if _, err := Import(s, []byte(bad)); err == nil {
			t.Fatalf("import of %q succeeded", bad)
		}
	}
	if s.NodeCount() != 1 {
		t.Fatalf("failed imports must leave the graph untouched, nodes = %d", s.NodeCount())
	}
}

func TestImportDefaults(t *testing.T) {
	s := newEditorStore()
	title, err := Import(s, []byte(`{"main_menu": [{}], "faq": [{}]}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if title != DefaultTitle {
		t.Fatalf("title = %q, want %q", title, DefaultTitle)
	}
	roots := s.RootMenuNodes()
	if len(roots) != 1 {
		t.Fatalf("roots = %v", roots)
	}
	n, _ := s.Node(roots[0])
	if n.Title != "Unnamed Menu Item" {
		t.Fatalf("default menu title = %q", n.Title)
	}
	faqs := s.FaqNodes()
	if len(faqs) != 1 {
		t.Fatalf("faqs = %v", faqs)
	}
	f, _ := s.Node(faqs[0])
	if f.ParamText("question") != "Unnamed Question" {
		t.Fatalf("default question = %q", f.ParamText("question"))
	}
}

func TestImportBuildsTree(t *testing.T) {
	s := newEditorStore()
	doc := []byte(`{
		"title": "Меню",
		"main_menu": [
			{
				"text": "Главное меню",
				"callback_data": "main",
				"submenu": [
					{"text": "Контакты", "callback_data": "contacts"}
				],
				"documents": [
					{"text": "Устав", "url": "https://example.org/u.pdf"}
				]
			}
		],
		"faq": [
			{"question": "Вопрос", "answer": "Ответ", "tags": ["a", "b"]}
		]
	}`)
	title, err := Import(s, doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if title != "Меню" {
		t.Fatalf("title = %q", title)
	}
	roots := s.RootMenuNodes()
	if len(roots) != 1 {
		t.Fatalf("roots = %v", roots)
	}
	children := s.ChildMenuNodes(roots[0])
	if len(children) != 1 {
		t.Fatalf("children = %v", children)
	}
	child, _ := s.Node(children[0])
	if child.ParamText("name") != "Контакты" {
		t.Fatalf("child name = %q", child.ParamText("name"))
	}
	docs := s.DocumentsFor(roots[0])
	if len(docs) != 1 {
		t.Fatalf("docs = %v", docs)
	}
	d, _ := s.Node(docs[0])
	if d.ParamText("url") != "https://example.org/u.pdf" {
		t.Fatalf("doc url = %q", d.ParamText("url"))
	}
	faqs := s.FaqNodes()
	if len(faqs) != 1 {
		t.Fatalf("faqs = %v", faqs)
	}
	f, _ := s.Node(faqs[0])
	if f.ParamText("tags") != "a, b" {
		t.Fatalf("tags param = %q", f.ParamText("tags"))
	}
}

func TestImportSkipsDocumentsWhenDisabled(t *testing.T) {
	s := graph.NewStore(graph.Config{})
	doc := []byte(`{"main_menu": [{"text": "m", "documents": [{"text": "d", "url": "u"}]}]}`)
	if _, err := Import(s, doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	roots := s.RootMenuNodes()
	if len(roots) != 1 {
		t.Fatalf("roots = %v", roots)
	}
	if docs := s.DocumentsFor(roots[0]); len(docs) != 0 {
		t.Fatalf("documents imported despite being disabled: %v", docs)
	}
}

func TestExportImportExportFixpoint(t *testing.T) {
	s := newEditorStore()
	root := s.AddMenuItem(graph.Point{}, "Главное меню")
	child := s.AddMenuItem(graph.Point{}, "Раздел")
	s.SetParamText(child, "url", "https://example.org")
	s.Connect(root, graph.PortSubMenu, child, graph.PortParentMenu)
	doc, _ := s.AddDocument(graph.Point{}, "Файл")
	s.SetParamText(doc, "url", "https://example.org/f.pdf")
	s.Connect(root, graph.PortDocuments, doc, graph.PortParentMenu)
	faq := s.AddFaqItem(graph.Point{}, "В?")
	s.SetParamText(faq, "answer", "О")

	first := Build(s, "Меню")
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	fresh := newEditorStore()
	title, err := Import(fresh, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	second := Build(fresh, title)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("export/import round trip diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDataPayloadRoundTrips(t *testing.T) {
	s := newEditorStore()
	doc := []byte(`{"main_menu": [{"text": "m", "data": {"weight": 3, "flags": ["x"]}}]}`)
	if _, err := Import(s, doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	cfg := Build(s, "t")
	if len(cfg.MainMenu) != 1 || len(cfg.MainMenu[0].Data) == 0 {
		t.Fatalf("data payload lost: %+v", cfg.MainMenu)
	}
	var payload struct {
		Weight int      `json:"weight"`
		Flags  []string `json:"flags"`
	}
	if err := json.Unmarshal(cfg.MainMenu[0].Data, &payload); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if payload.Weight != 3 || len(payload.Flags) != 1 || payload.Flags[0] != "x" {
		t.Fatalf("payload = %+v", payload)
	}
}
