package resolve

import (
	"testing"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

func TestResolveEffectiveOptions_DefaultsFollowDefinitionsPresence(t *testing.T) {
	withDefs := mustNode(t, `{"definitions":{"Pet":{}}}`)
	withoutDefs := mustNode(t, `{"paths":{}}`)

	eff := resolveEffectiveOptions(Options{}, withDefs)
	if !eff.resolveAllOf || !eff.setAdditionalPropertiesFalse || !eff.resolveDiscriminator || !eff.resolveNullableTypes {
		t.Fatalf("expected allOf-derived defaults to be true when definitions is present: %+v", eff)
	}

	eff2 := resolveEffectiveOptions(Options{}, withoutDefs)
	if eff2.resolveAllOf || eff2.setAdditionalPropertiesFalse || eff2.resolveDiscriminator || eff2.resolveNullableTypes {
		t.Fatalf("expected allOf-derived defaults to be false without definitions: %+v", eff2)
	}
}

func TestResolveEffectiveOptions_EmptyDefinitionsStillCountsAsPresent(t *testing.T) {
	emptyDefs := mustNode(t, `{"definitions":{}}`)

	eff := resolveEffectiveOptions(Options{}, emptyDefs)
	if !eff.resolveAllOf || !eff.setAdditionalPropertiesFalse || !eff.resolveDiscriminator || !eff.resolveNullableTypes {
		t.Fatalf("expected allOf-derived defaults to be true for an empty-but-present definitions key: %+v", eff)
	}
}

func TestResolveEffectiveOptions_DiscriminatorForcesAllOf(t *testing.T) {
	tree := mustNode(t, `{"paths":{}}`)
	eff := resolveEffectiveOptions(Options{ShouldResolveDiscriminator: boolPtr(true)}, tree)
	if !eff.resolveAllOf {
		t.Fatalf("expected shouldResolveDiscriminator=true to force resolveAllOf=true, got %+v", eff)
	}
}

func TestResolveEffectiveOptions_DisablingRelativePathsForcesXmsExamplesFalse(t *testing.T) {
	tree := mustNode(t, `{"paths":{}}`)
	eff := resolveEffectiveOptions(Options{
		ShouldResolveRelativePaths: boolPtr(false),
		ShouldResolveXmsExamples:   boolPtr(true),
	}, tree)
	if eff.resolveXmsExamples {
		t.Fatalf("expected shouldResolveXmsExamples forced false when relative paths are disabled, got %+v", eff)
	}
}

func mustNode(t *testing.T, jsonDoc string) *spectree.Node {
	t.Helper()
	n, err := spectree.FromYAML([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return n
}
