package http

type createProjectReq struct {
	Name              string `json:"name"`
	FundingGoal       string `json:"funding_goal"`
	HeritageRecipient string `json:"heritage_recipient"`
}

type fundReq struct {
	Amount string `json:"amount"`
}

type evidenceReq struct {
	EvidenceHash string `json:"evidence_hash"`
}
