package style

import "testing"

func TestCountingBloomFilterBasics(t *testing.T) {
	var f countingBloomFilter
	h := bloomHash(hashKindLocalName, "div")

	if f.mightContainHash(h) {
		t.Fatal("empty filter should not contain anything")
	}
	f.insertHash(h)
	if !f.mightContainHash(h) {
		t.Fatal("filter should contain an inserted hash")
	}
	f.insertHash(h)
	f.removeHash(h)
	if !f.mightContainHash(h) {
		t.Fatal("hash inserted twice and removed once should remain")
	}
	f.removeHash(h)
	if f.mightContainHash(h) {
		t.Fatal("fully removed hash should be gone")
	}
}

func TestAncestorFilterPushPop(t *testing.T) {
	div := newFakeElement("div").withID("main").withClass("wrap shaded")
	f := NewAncestorFilter()

	f.PushElement(div)
	for _, h := range []uint32{
		bloomHash(hashKindLocalName, "div"),
		bloomHash(hashKindID, "main"),
		bloomHash(hashKindClass, "wrap"),
		bloomHash(hashKindClass, "shaded"),
	} {
		if !f.filter.mightContainHash(h) {
			t.Errorf("pushed element key %#x missing from filter", h)
		}
	}

	f.PopElement(div)
	if f.filter.mightContainHash(bloomHash(hashKindID, "main")) {
		t.Error("popped element keys should be removed")
	}
}

func TestCollectAncestorHashes(t *testing.T) {
	// In "x + y z", x is a sibling of an ancestor, not an ancestor:
	// only y may contribute.
	hashes := CollectAncestorHashes(mustSelector("x + y z"))
	want := bloomHash(hashKindLocalName, "y")
	found := false
	for i := 0; i < hashes.count; i++ {
		if hashes.hashes[i] == bloomHash(hashKindLocalName, "x") {
			t.Error("sibling compound must not contribute an ancestor hash")
		}
		if hashes.hashes[i] == want {
			found = true
		}
	}
	if !found {
		t.Error("ancestor compound y should contribute a hash")
	}

	// Subject compound never contributes.
	hashes = CollectAncestorHashes(mustSelector("div.wrap p"))
	for i := 0; i < hashes.count; i++ {
		if hashes.hashes[i] == bloomHash(hashKindLocalName, "p") {
			t.Error("subject compound must not contribute an ancestor hash")
		}
	}
	if hashes.count != 2 {
		t.Errorf("div.wrap should contribute 2 hashes, got %d", hashes.count)
	}
}

// The fast reject must never produce a false negative: any element tree
// in which the selector matches has all ancestor keys in the filter.
func TestBloomFastRejectNoFalseNegatives(t *testing.T) {
	html := newFakeElement("html")
	body := html.appendChild(newFakeElement("body").withClass("page"))
	div := body.appendChild(newFakeElement("div").withID("main"))
	p := div.appendChild(newFakeElement("p"))

	filter := NewAncestorFilter()
	for _, el := range []*fakeElement{html, body, div} {
		filter.PushElement(el)
	}

	for _, selector := range []string{
		"p", "div p", "#main p", "body .x + p", ".page div p", "html body div p",
	} {
		rule := NewRule(mustSelector(selector), testBlock("color", "red", false), 0, 0)
		if !rule.hashes.mayMatch(filter) {
			t.Errorf("%q wrongly fast-rejected", selector)
		}
	}

	// And a true reject for an absent ancestor.
	rule := NewRule(mustSelector("article p"), testBlock("color", "red", false), 0, 0)
	if rule.hashes.mayMatch(filter) {
		t.Errorf("article p should be fast-rejected under this tree")
	}
	_ = p
}

func TestMayMatchWithoutFilter(t *testing.T) {
	rule := NewRule(mustSelector("div p"), testBlock("color", "red", false), 0, 0)
	if !rule.hashes.mayMatch(nil) {
		t.Error("absent filter must never reject")
	}
}
