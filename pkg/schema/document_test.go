package schema

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/aretw0/policytree/pkg/domain"
)

const yamlTree = `
axis: 0
cut_point: 0.5
left:
  action: 0
  reward: 1
right:
  axis: 1
  cut_point: 0.25
  left: {action: 1, reward: 2.5}
  right: {action: 2, reward: 4}
`

func TestDecode_YAML(t *testing.T) {
	doc, err := Decode([]byte(yamlTree), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	root, err := doc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	b, ok := root.(*domain.Branch)
	if !ok {
		t.Fatalf("root should be a branch, got %T", root)
	}
	if b.Axis() != 0 || b.CutPoint() != 0.5 {
		t.Errorf("root split = (%d, %v), want (0, 0.5)", b.Axis(), b.CutPoint())
	}
	if b.Reward() != 7.5 {
		t.Errorf("root reward = %v, want 7.5", b.Reward())
	}
	right, ok := b.Right().(*domain.Branch)
	if !ok {
		t.Fatalf("right child should be a branch, got %T", b.Right())
	}
	if leaf := right.Left().(*domain.Leaf); leaf.Action() != 1 || leaf.Reward() != 2.5 {
		t.Errorf("right.left = %v, want action 1 reward 2.5", leaf)
	}
}

func TestDecode_JSON(t *testing.T) {
	data := `{"axis": 2, "cut_point": 1, "left": {"action": 3, "reward": 1}, "right": {"action": 3, "reward": 2}}`

	root, err := Parse([]byte(data), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := domain.ToTable(domain.Prune(root)); len(got) != 1 || got[0].Action != 4 {
		t.Errorf("pruned table = %+v, want a single leaf with action 4", got)
	}
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte(`{"action": 0, "reward": 1, "colour": "red"}`), FormatJSON)
	if err == nil {
		t.Fatal("Decode() should reject unknown keys")
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Errorf("error should mention the unknown key, got %v", err)
	}
}

func TestDecode_RejectsFractionalAction(t *testing.T) {
	_, err := Decode([]byte(`{"action": 1.5, "reward": 1}`), FormatJSON)
	if err == nil {
		t.Fatal("Decode() should reject a fractional action")
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode([]byte(""), FormatYAML); err == nil {
		t.Fatal("Decode() should reject an empty document")
	}
	if _, err := Decode([]byte("{}"), Format("toml")); err == nil {
		t.Fatal("Decode() should reject an unknown format")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	action := -1
	doc := &Document{
		Axis: new(int),
		Left: &Document{Action: &action},
		Right: &Document{
			Action:   new(int),
			Reward:   new(float64),
			CutPoint: new(float64),
		},
	}

	err := doc.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}

	errs := ValidationErrors(err)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), err)
	}

	wantPaths := []string{"$", "$.left", "$.left", "$.right"}
	for i, e := range errs {
		var ve *ValidationError
		if !errors.As(e, &ve) {
			t.Fatalf("error %d should be *ValidationError, got %T", i, e)
		}
		if ve.Path != wantPaths[i] {
			t.Errorf("error %d path = %q, want %q (%v)", i, ve.Path, wantPaths[i], ve)
		}
	}
}

func TestValidate_MissingChild(t *testing.T) {
	doc := Branch(0, 0, Leaf(0, 1), nil)

	err := doc.Validate()
	if err == nil {
		t.Fatal("Validate() should fail for a missing child")
	}
	if !strings.Contains(err.Error(), "$.right") {
		t.Errorf("error should point at $.right, got %v", err)
	}
	if _, err := doc.Build(); err == nil {
		t.Fatal("Build() should fail for a missing child")
	}
}

func TestValidate_EmptyNode(t *testing.T) {
	if err := (&Document{}).Validate(); err == nil {
		t.Fatal("Validate() should reject a node with no fields")
	}
}

func TestFromNode_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			root, err := Parse([]byte(yamlTree), FormatYAML)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			data, err := Encode(FromNode(root), format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			again, err := Parse(data, format)
			if err != nil {
				t.Fatalf("Parse() round trip error = %v\n%s", err, data)
			}

			want := domain.ToTable(root)
			got := domain.ToTable(again)
			if len(want) != len(got) {
				t.Fatalf("table length = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if want[i] != got[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
				}
			}
			if again.Reward() != root.Reward() {
				t.Errorf("reward = %v, want %v", again.Reward(), root.Reward())
			}
		})
	}
}

func TestFromNode_BranchCarriesStoredReward(t *testing.T) {
	root := domain.NewBranch(
		domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 1), 0, 0.5),
		domain.NewBranch(domain.NewLeaf(4, 0), domain.NewLeaf(8, 1), 1, 0.5),
		0, 0.5,
	)
	pruned := domain.Prune(root)

	doc := FromNode(pruned)
	if doc.Reward == nil || *doc.Reward != 15 {
		t.Errorf("document reward = %v, want 15", doc.Reward)
	}
}

func TestBuild_KeepsStoredBranchReward(t *testing.T) {
	// The repeated cut on the left drops a subtree, so the root keeps 15 while
	// its remaining leaves only sum to 13.
	root := domain.Prune(domain.NewBranch(
		domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 1), 0, 0.5),
		domain.NewBranch(domain.NewLeaf(4, 1), domain.NewLeaf(8, 0), 1, 0.25),
		0, 0.5,
	))
	if root.Reward() != 15 {
		t.Fatalf("pruned reward = %v, want 15", root.Reward())
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(FromNode(root), format)
		if err != nil {
			t.Fatalf("Encode(%s) error = %v", format, err)
		}
		again, err := Parse(data, format)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", format, err)
		}
		if again.Reward() != 15 {
			t.Errorf("%s: loaded reward = %v, want 15", format, again.Reward())
		}
		if got := again.(*domain.Branch).Right().Reward(); got != 12 {
			t.Errorf("%s: right reward = %v, want 12", format, got)
		}
	}
}

func TestBuild_BranchWithoutRewardSumsChildren(t *testing.T) {
	root, err := Branch(0, 0.5, Leaf(0, 1), Leaf(1, 2)).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if root.Reward() != 3 {
		t.Errorf("reward = %v, want 3", root.Reward())
	}
}

func TestEncode_NonFiniteValues(t *testing.T) {
	doc := Branch(0, math.NaN(), Leaf(0, math.Inf(1)), Leaf(1, math.Inf(-1)))

	data, err := Encode(doc, FormatJSON)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for _, want := range []string{`"cut_point": "NaN"`, `"reward": "+Inf"`, `"reward": "-Inf"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded document misses %s:\n%s", want, data)
		}
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		if format == FormatYAML {
			if data, err = Encode(doc, FormatYAML); err != nil {
				t.Fatalf("Encode(yaml) error = %v", err)
			}
		}
		root, err := Parse(data, format)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v\n%s", format, err, data)
		}
		b := root.(*domain.Branch)
		if !math.IsNaN(b.CutPoint()) {
			t.Errorf("%s: cut point = %v, want NaN", format, b.CutPoint())
		}
		if !math.IsInf(float64(b.Left().Reward()), 1) || !math.IsInf(float64(b.Right().Reward()), -1) {
			t.Errorf("%s: rewards = %v, %v; want +Inf, -Inf", format, b.Left().Reward(), b.Right().Reward())
		}
	}
}

func TestDecode_RejectsUnknownNumberString(t *testing.T) {
	_, err := Decode([]byte(`{"action": 0, "reward": "lots"}`), FormatJSON)
	if err == nil {
		t.Fatal("Decode() error = nil, want an error for a non-numeric reward")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
	if FormatFromPath("tree.JSON") != FormatJSON || FormatFromPath("tree.yaml") != FormatYAML {
		t.Error("FormatFromPath picked the wrong format")
	}
}

func TestEncodeTable(t *testing.T) {
	data, err := EncodeTable(nil, FormatJSON)
	if err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("EncodeTable(nil) = %s, want []", data)
	}
}
