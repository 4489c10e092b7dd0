package storage

import (
	"fmt"
	"time"
)

// Single-table key layout. Campaign documents and their counters live in
// one item so counter bumps are one atomic UpdateItem; interactions are
// separate append-only items under the recipient's partition.
//
//	Campaign:     PK TENANT#<t>                        SK CAMPAIGN#<c>
//	List:         PK TENANT#<t>                        SK LIST#<l>
//	EmailRecord:  PK TENANT#<t>#CAMPAIGN#<c>           SK EMAIL#<e>
//	Interaction:  PK TENANT#<t>#CAMPAIGN#<c>#EMAIL#<e> SK INTERACTION#<ts>#<id>
const (
	skCampaignPrefix    = "CAMPAIGN#"
	skListPrefix        = "LIST#"
	skEmailPrefix       = "EMAIL#"
	skInteractionPrefix = "INTERACTION#"

	statusIndexName = "status-index"
)

func tenantPK(tenantID string) string {
	return "TENANT#" + tenantID
}

func campaignSK(campaignID string) string {
	return skCampaignPrefix + campaignID
}

func listSK(listID string) string {
	return skListPrefix + listID
}

func campaignPK(tenantID, campaignID string) string {
	return fmt.Sprintf("TENANT#%s#CAMPAIGN#%s", tenantID, campaignID)
}

func emailSK(emailRecordID string) string {
	return skEmailPrefix + emailRecordID
}

func interactionPK(tenantID, campaignID, emailRecordID string) string {
	return fmt.Sprintf("TENANT#%s#CAMPAIGN#%s#EMAIL#%s", tenantID, campaignID, emailRecordID)
}

// interactionSK orders events chronologically within a recipient's
// partition; the id suffix keeps same-instant events distinct.
func interactionSK(at time.Time, id string) string {
	return skInteractionPrefix + at.UTC().Format(time.RFC3339Nano) + "#" + id
}

// statusGSIPK is the hash key of the status index used by the scheduler.
func statusGSIPK(status string) string {
	return "STATUS#" + status
}

func statusGSISK(scheduledAt time.Time) string {
	return scheduledAt.UTC().Format(time.RFC3339)
}
