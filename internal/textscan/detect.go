package textscan

import (
	"regexp"
	"strings"
)

var (
	domainPattern = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	walletPattern = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
)

// detectEntity classifies the normalized query and recognizes well-known
// project aliases. Known projects get alternate baselines in every module.
func detectEntity(normalized string) (EntityType, KnownProject, []string) {
	var reasons []string

	entityType := EntityProject
	switch {
	case strings.HasPrefix(normalized, "0x") && (len(normalized) == 42 || len(normalized) == 64):
		entityType = EntityEVMContract
		reasons = append(reasons, "EVM contract address detected.")
	case domainPattern.MatchString(normalized):
		entityType = EntityDomain
		reasons = append(reasons, "Domain name detected.")
	case walletPattern.MatchString(normalized):
		entityType = EntityWallet
		reasons = append(reasons, "Wallet address detected.")
	default:
		reasons = append(reasons, "Analyzing as a project/token name.")
	}

	var known KnownProject
	switch {
	case strings.Contains(normalized, "naoris"):
		known = ProjectNaoris
		reasons = append(reasons, "Project identified as Naoris Protocol (strong security profile, post-quantum).")
	case strings.Contains(normalized, "qanx") || strings.Contains(normalized, "qanplatform"):
		known = ProjectQANX
		reasons = append(reasons, "Project identified as QANX (intermediate profile, security/quantum focused).")
	case normalized == "btc" || normalized == "bitcoin":
		known = ProjectBitcoin
		reasons = append(reasons, "Project identified as Bitcoin.")
	case normalized == "eth" || normalized == "ethereum":
		known = ProjectEthereum
		reasons = append(reasons, "Project identified as Ethereum.")
	}

	return entityType, known, reasons
}
