package complaint

import "fmt"

const (
	keyAllComplaints = "all-complaints"
	keyStatsPrefix   = "complaint-stats:"
)

func keyOwnComplaints(userID string) string {
	return "my-complaints:" + userID
}

func keyComplaint(id string) string {
	return "complaint:" + id
}

func keyStats(userID string, isAdmin bool) string {
	return fmt.Sprintf("%s%s:%t", keyStatsPrefix, userID, isAdmin)
}
