// Package rules implements the heuristic contract-source pattern detector.
// It flags weak risk signals (mint functions, proxies, blacklists, taxes)
// from verified source text. It is not an audit.
package rules

import "strings"

// Severity grades a detected risk pattern.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskFlag is a single severity-tagged signal emitted by the detector.
// Flags are immutable once created.
type RiskFlag struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

// Input carries everything a rule may inspect. Code and contract name are
// lowercased once before evaluation.
type Input struct {
	Code         string
	ContractName string
}

// rule is one independent test against the source text. Rules never exclude
// each other and each appends at most one flag.
type rule struct {
	name     string
	severity Severity
	reason   string
	match    func(in Input) bool
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ruleTable is the fixed, ordered rule set. Output flags follow this order.
var ruleTable = []rule{
	{
		name:     "Proxy / upgradeable contract",
		severity: SeverityMedium,
		reason: "The contract contains proxy or upgrade machinery (proxy, delegatecall...). " +
			"Its logic can be changed after deployment.",
		match: func(in Input) bool {
			return strings.Contains(in.ContractName, "proxy") ||
				containsAny(in.Code, "proxy", "delegatecall", "transparentupgradeableproxy")
		},
	},
	{
		name:     "Mint function detected",
		severity: SeverityHigh,
		reason: "The contract exposes a mint function. If it is owner-controlled, " +
			"the supply can be inflated at any time.",
		match: func(in Input) bool {
			return containsAny(in.Code, "function mint", "mint(")
		},
	},
	{
		name:     "Blacklist mechanism",
		severity: SeverityMedium,
		reason: "The contract contains blacklist/blocklist logic. " +
			"Specific addresses can be blocked from transferring or selling.",
		match: func(in Input) bool {
			return containsAny(in.Code, "blacklist", "blocklist", "isblacklisted")
		},
	},
	{
		name:     "Pausable contract / potential trading lock",
		severity: SeverityMedium,
		reason: "The contract is pausable. The owner may be able to freeze " +
			"all transfers at any time.",
		match: func(in Input) bool {
			return containsAny(in.Code, "pausable", "whennotpaused", "pause()")
		},
	},
	{
		name:     "Transfer taxes",
		severity: SeverityMedium,
		reason: "The contract declares transfer fee variables. " +
			"Fees may be high or changeable after launch.",
		match: func(in Input) bool {
			return containsAny(in.Code,
				"taxfee", "liquidityfee", "marketingfee",
				"buytax", "selltax", "feepercent", "totalfees")
		},
	},
	{
		name:     "Owner control (Ownable)",
		severity: SeverityLow,
		reason: "The contract uses an Ownable/onlyOwner scheme. " +
			"Critical functions are reserved to the owner.",
		match: func(in Input) bool {
			return containsAny(in.Code, "onlyowner", "ownable")
		},
	},
	{
		name:     "Trading limits / anti-bot",
		severity: SeverityLow,
		reason: "The contract declares transaction limits or cooldowns. " +
			"Misconfigured, these can block legitimate users.",
		match: func(in Input) bool {
			return containsAny(in.Code, "cooldown", "maxtransactionamount")
		},
	},
}

// Detect scans the contract source text and returns the flags matched by the
// fixed rule table, in table order. Empty source text yields an empty list,
// never an error. Matching is case-insensitive over the full text.
func Detect(sourceCode, contractName string) []RiskFlag {
	if sourceCode == "" {
		return nil
	}

	in := Input{
		Code:         strings.ToLower(sourceCode),
		ContractName: strings.ToLower(contractName),
	}

	var flags []RiskFlag
	for _, r := range ruleTable {
		if r.match(in) {
			flags = append(flags, RiskFlag{
				Name:     r.name,
				Severity: r.severity,
				Reason:   r.reason,
			})
		}
	}

	return flags
}
