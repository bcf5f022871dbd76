package testsupport

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// Member describes one bundle member entry for BundleLabel.
type Member struct {
	LIDVID string
	Status string
}

// BundleLabel renders a bundle label document. readme may be empty.
func BundleLabel(lid, vid, readme string, members ...Member) string {
	var b strings.Builder
	b.WriteString(xmlHeader("Product_Bundle", lid, vid))
	if readme != "" {
		fmt.Fprintf(&b, "  <File_Area_Text>\n    <File>\n      <file_name>%s</file_name>\n    </File>\n  </File_Area_Text>\n", readme)
	}
	for _, m := range members {
		status := m.Status
		if status == "" {
			status = "Primary"
		}
		fmt.Fprintf(&b, "  <Bundle_Member_Entry>\n    <lidvid_reference>%s</lidvid_reference>\n    <member_status>%s</member_status>\n    <reference_type>bundle_has_data_collection</reference_type>\n  </Bundle_Member_Entry>\n", m.LIDVID, status)
	}
	b.WriteString("</Product_Bundle>\n")
	return b.String()
}

// CollectionLabel renders a collection label pointing at an inventory file.
func CollectionLabel(lid, vid, inventory string) string {
	var b strings.Builder
	b.WriteString(xmlHeader("Product_Collection", lid, vid))
	fmt.Fprintf(&b, "  <File_Area_Inventory>\n    <File>\n      <file_name>%s</file_name>\n    </File>\n  </File_Area_Inventory>\n", inventory)
	b.WriteString("</Product_Collection>\n")
	return b.String()
}

// ProductLabel renders an observational product label naming its data files.
func ProductLabel(lid, vid string, dataFiles ...string) string {
	var b strings.Builder
	b.WriteString(xmlHeader("Product_Observational", lid, vid))
	for _, name := range dataFiles {
		fmt.Fprintf(&b, "  <File_Area_Observational>\n    <File>\n      <file_name>%s</file_name>\n    </File>\n  </File_Area_Observational>\n", name)
	}
	b.WriteString("</Product_Observational>\n")
	return b.String()
}

func xmlHeader(class, lid, vid string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b, "<%s xmlns=\"http://pds.nasa.gov/pds4/pds/v1\">\n", class)
	b.WriteString("  <Identification_Area>\n")
	fmt.Fprintf(&b, "    <logical_identifier>%s</logical_identifier>\n", lid)
	if vid != "" {
		fmt.Fprintf(&b, "    <version_id>%s</version_id>\n", vid)
	}
	b.WriteString("  </Identification_Area>\n")
	return b.String()
}

// InventoryCSV joins rows like "P,urn:...::1.0" into an inventory document.
func InventoryCSV(rows ...string) string {
	return strings.Join(rows, "\r\n") + "\r\n"
}

// NewBundleTree writes a complete two-collection bundle under a temp
// directory and returns its root. The tree contains a readme, two product
// labels in data_raw (which share one calibration file), and one product
// label in data_derived.
func NewBundleTree(t testing.TB) string {
	t.Helper()
	root := t.TempDir()

	const (
		bundleLID  = "urn:nasa:pds:viper_vis"
		rawLID     = "urn:nasa:pds:viper_vis:data_raw"
		derivedLID = "urn:nasa:pds:viper_vis:data_derived"
		rawP1      = "urn:nasa:pds:viper_vis:data_raw:231125-140416-001-ncl-a"
		rawP2      = "urn:nasa:pds:viper_vis:data_raw:231125-140417-002-ncr-z"
		derivedP1  = "urn:nasa:pds:viper_vis:data_derived:231125-140416-001-ncl-s"
	)

	WriteFile(t, filepath.Join(root, "bundle.xml"), BundleLabel(bundleLID, "1.0", "readme.txt",
		Member{LIDVID: rawLID + "::1.0"},
		Member{LIDVID: derivedLID + "::1.0"},
	))
	WriteFile(t, filepath.Join(root, "readme.txt"), "VIPER VIS archive bundle\n")

	WriteFile(t, filepath.Join(root, "data_raw", "collection_data_raw.xml"),
		CollectionLabel(rawLID, "1.0", "collection_data_raw.csv"))
	WriteFile(t, filepath.Join(root, "data_raw", "collection_data_raw.csv"),
		InventoryCSV("P,"+rawP1+"::1.0", "P,"+rawP2+"::1.0"))
	WriteFile(t, filepath.Join(root, "data_raw", "231125", "231125-140416-001-ncl-a.xml"),
		ProductLabel(rawP1, "1.0", "231125-140416-001-ncl-a.img", "../calibration/flat_field.cal"))
	WriteFile(t, filepath.Join(root, "data_raw", "231125", "231125-140416-001-ncl-a.img"), "raw left image\n")
	WriteFile(t, filepath.Join(root, "data_raw", "231125", "231125-140417-002-ncr-z.xml"),
		ProductLabel(rawP2, "1.0", "231125-140417-002-ncr-z.img", "../calibration/flat_field.cal"))
	WriteFile(t, filepath.Join(root, "data_raw", "231125", "231125-140417-002-ncr-z.img"), "raw right image\n")
	WriteFile(t, filepath.Join(root, "data_raw", "calibration", "flat_field.cal"), "flat field calibration\n")

	WriteFile(t, filepath.Join(root, "data_derived", "collection_data_derived.xml"),
		CollectionLabel(derivedLID, "1.0", "collection_data_derived.csv"))
	WriteFile(t, filepath.Join(root, "data_derived", "collection_data_derived.csv"),
		InventoryCSV("P,"+derivedP1+"::1.0"))
	WriteFile(t, filepath.Join(root, "data_derived", "231125-140416-001-ncl-s.xml"),
		ProductLabel(derivedP1, "1.0", "231125-140416-001-ncl-s.tif"))
	WriteFile(t, filepath.Join(root, "data_derived", "231125-140416-001-ncl-s.tif"), "derived SLoG image\n")

	return root
}

// BundleTreeRelPaths lists every file NewBundleTree produces, relative to
// the returned root, in sorted order. Install manifests over the fixture
// must match exactly.
func BundleTreeRelPaths() []string {
	return []string{
		"bundle.xml",
		"data_derived/231125-140416-001-ncl-s.tif",
		"data_derived/231125-140416-001-ncl-s.xml",
		"data_derived/collection_data_derived.csv",
		"data_derived/collection_data_derived.xml",
		"data_raw/231125/231125-140416-001-ncl-a.img",
		"data_raw/231125/231125-140416-001-ncl-a.xml",
		"data_raw/231125/231125-140417-002-ncr-z.img",
		"data_raw/231125/231125-140417-002-ncr-z.xml",
		"data_raw/calibration/flat_field.cal",
		"data_raw/collection_data_raw.csv",
		"data_raw/collection_data_raw.xml",
		"readme.txt",
	}
}
