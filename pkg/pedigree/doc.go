// Package pedigree provides the data model for family pedigrees.
//
// # Overview
//
// A pedigree is a flat list of individuals, each optionally referencing a
// father and a mother within the same family. This package defines the
// [Entry] record, the validated per-family [Pedigree] collection, and codecs
// for the two interchange formats pedviz understands:
//
//   - PED: whitespace-delimited PLINK-style .ped/.fam records
//     (family, individual, father, mother, sex, affected status)
//   - JSON: an array of entry objects, as produced by sample-metadata APIs
//
// # Basic Usage
//
// Read a PED file and split it into families:
//
//	entries, err := pedigree.ReadPEDFile("cohort.fam")
//	if err != nil {
//	    return err
//	}
//	for _, ped := range pedigree.Families(entries) {
//	    fmt.Println(ped.FamilyID, ped.Len())
//	}
//
// Construct a validated pedigree for one family with [New]. Validation
// enforces unique individual IDs; parent references pointing outside the
// family are tolerated but reported via [Pedigree.Dangling], since they
// usually indicate upstream data inconsistency rather than a fatal error.
//
// # Sex and Affected Status
//
// PED encodes sex and affected status as small integer codes. The [Sex] and
// [Status] types are closed enums over those codes; unknown codes map to
// [SexUnknown] and [StatusUnknown] rather than failing, matching how
// clinical pedigree data is handled in practice. Rendering attributes
// (node shape, fill) are derived from the enums, never from raw codes.
package pedigree
