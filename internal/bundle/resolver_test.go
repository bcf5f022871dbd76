package bundle_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regolith/internal/bundle"
	"regolith/internal/label"
	"regolith/internal/testsupport"
)

func TestResolveCompleteBundle(t *testing.T) {
	root := testsupport.NewBundleTree(t)

	graph, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if graph.Document().LID != "urn:nasa:pds:viper_vis" {
		t.Fatalf("bundle lid = %s", graph.Document().LID)
	}

	files := graph.Files()
	want := testsupport.BundleTreeRelPaths()
	if len(files) != len(want) {
		t.Fatalf("resolved %d files, want %d: %+v", len(files), len(want), files)
	}
	for i, f := range files {
		if f.RelPath != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, f.RelPath, want[i])
		}
	}
}

func TestResolveDeduplicatesSharedFiles(t *testing.T) {
	// Both raw products reference calibration/flat_field.cal; it must
	// appear exactly once.
	root := testsupport.NewBundleTree(t)

	graph, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	count := 0
	for _, f := range graph.Files() {
		if strings.HasSuffix(f.RelPath, "flat_field.cal") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("calibration file appears %d times, want 1", count)
	}
}

func TestResolveCyclicReference(t *testing.T) {
	root := t.TempDir()
	const (
		bundleLID = "urn:nasa:pds:loop"
		colLID    = "urn:nasa:pds:loop:data"
	)
	testsupport.WriteFile(t, filepath.Join(root, "bundle.xml"),
		testsupport.BundleLabel(bundleLID, "1.0", "", testsupport.Member{LIDVID: colLID + "::1.0"}))
	testsupport.WriteFile(t, filepath.Join(root, "data", "collection_data.xml"),
		testsupport.CollectionLabel(colLID, "1.0", "collection_data.csv"))
	// The inventory points back at the bundle itself.
	testsupport.WriteFile(t, filepath.Join(root, "data", "collection_data.csv"),
		testsupport.InventoryCSV("P,"+bundleLID+"::1.0"))

	_, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	var cyclic *bundle.CyclicReferenceError
	if !errors.As(err, &cyclic) {
		t.Fatalf("Resolve error = %v, want CyclicReferenceError", err)
	}
	if len(cyclic.Cycle) != 3 {
		t.Fatalf("cycle = %v", cyclic.Cycle)
	}
	first, last := cyclic.Cycle[0], cyclic.Cycle[len(cyclic.Cycle)-1]
	if first != last {
		t.Fatalf("cycle does not close: %v", cyclic.Cycle)
	}
	if filepath.Base(first) != "bundle.xml" {
		t.Fatalf("cycle starts at %s", first)
	}
}

func TestResolveDanglingFile(t *testing.T) {
	root := testsupport.NewBundleTree(t)
	missing := filepath.Join(root, "data_derived", "231125-140416-001-ncl-s.tif")
	if err := os.Remove(missing); err != nil {
		t.Fatal(err)
	}

	_, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	var dangling *bundle.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Resolve error = %v, want DanglingReferenceError", err)
	}
	if dangling.Target != missing {
		t.Fatalf("error names %q, want %q", dangling.Target, missing)
	}
	if filepath.Base(dangling.Referencer) != "231125-140416-001-ncl-s.xml" {
		t.Fatalf("error referencer = %q", dangling.Referencer)
	}
}

func TestResolveDanglingLabel(t *testing.T) {
	root := t.TempDir()
	const colLID = "urn:nasa:pds:sparse:data"
	testsupport.WriteFile(t, filepath.Join(root, "bundle.xml"),
		testsupport.BundleLabel("urn:nasa:pds:sparse", "1.0", "", testsupport.Member{LIDVID: colLID + "::1.0"}))

	_, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	var dangling *bundle.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Resolve error = %v, want DanglingReferenceError", err)
	}
	if dangling.Target != colLID+"::1.0" {
		t.Fatalf("error names %q", dangling.Target)
	}
}

func TestResolveVersionMismatchIsDangling(t *testing.T) {
	root := t.TempDir()
	const colLID = "urn:nasa:pds:skew:data"
	testsupport.WriteFile(t, filepath.Join(root, "bundle.xml"),
		testsupport.BundleLabel("urn:nasa:pds:skew", "1.0", "", testsupport.Member{LIDVID: colLID + "::2.0"}))
	testsupport.WriteFile(t, filepath.Join(root, "data", "collection_data.xml"),
		testsupport.CollectionLabel(colLID, "1.0", "collection_data.csv"))
	testsupport.WriteFile(t, filepath.Join(root, "data", "collection_data.csv"), testsupport.InventoryCSV())

	_, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	var dangling *bundle.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Resolve error = %v, want DanglingReferenceError", err)
	}
	if dangling.Target != colLID+"::2.0" {
		t.Fatalf("error names %q", dangling.Target)
	}
}

func TestResolvePathEscape(t *testing.T) {
	root := t.TempDir()
	const prodLID = "urn:nasa:pds:escape:data:231125-140416-001-ncl-a"
	testsupport.WriteFile(t, filepath.Join(root, "bundle.xml"),
		testsupport.BundleLabel("urn:nasa:pds:escape", "1.0", "",
			testsupport.Member{LIDVID: "urn:nasa:pds:escape:data::1.0"}))
	testsupport.WriteFile(t, filepath.Join(root, "data", "collection_data.xml"),
		testsupport.CollectionLabel("urn:nasa:pds:escape:data", "1.0", "collection_data.csv"))
	testsupport.WriteFile(t, filepath.Join(root, "data", "collection_data.csv"),
		testsupport.InventoryCSV("P,"+prodLID+"::1.0"))
	testsupport.WriteFile(t, filepath.Join(root, "data", "product.xml"),
		testsupport.ProductLabel(prodLID, "1.0", "../../outside.img"))

	// The referenced file exists, but outside the bundle root.
	testsupport.WriteFile(t, filepath.Join(filepath.Dir(root), "outside.img"), "contraband")

	_, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	var escape *bundle.PathEscapeError
	if !errors.As(err, &escape) {
		t.Fatalf("Resolve error = %v, want PathEscapeError", err)
	}
	if escape.Target != "../../outside.img" {
		t.Fatalf("error names %q", escape.Target)
	}
}

func TestResolveMissingBundleLabel(t *testing.T) {
	_, err := bundle.NewResolver(nil).Resolve(context.Background(), t.TempDir())
	var dangling *bundle.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Resolve error = %v, want DanglingReferenceError", err)
	}
}

func TestResolveUnreadableLabelFailsWholeBundle(t *testing.T) {
	root := testsupport.NewBundleTree(t)
	testsupport.WriteFile(t, filepath.Join(root, "data_raw", "broken.xml"), "<Product_Observational><File>")

	_, err := bundle.NewResolver(nil).Resolve(context.Background(), root)
	var unreadable *label.UnreadableError
	if !errors.As(err, &unreadable) {
		t.Fatalf("Resolve error = %v, want UnreadableError", err)
	}
}
