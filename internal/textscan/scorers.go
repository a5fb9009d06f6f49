package textscan

import "strings"

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// keywordRule is one independent additive adjustment scanned against the
// lower-cased query text.
type keywordRule struct {
	delta  int
	reason string
	match  func(q string) bool
}

func anyOf(keywords ...string) func(string) bool {
	return func(q string) bool { return containsAny(q, keywords...) }
}

func allOf(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if !strings.Contains(q, k) {
				return false
			}
		}
		return true
	}
}

func applyRules(base int, q string, ruleSet []keywordRule, reasons []string) SubScore {
	risk := base
	for _, r := range ruleSet {
		if r.match(q) {
			risk += r.delta
			reasons = append(reasons, r.reason)
		}
	}
	return SubScore{Value: clampInt(float64(risk)), Reasons: reasons}
}

// contractRules are the code/smart-contract heuristics.
var contractRules = []keywordRule{
	{-12, "Audit mentioned: lowers the risk of a critical bug.", anyOf("audit")},
	{-8, "Third-party audit mentioned (e.g. Certik).", anyOf("audited by", "certik")},
	{-7, "Multisig detected: better key governance.", anyOf("multisig")},
	{-5, "Open source / Github reference: code is more auditable.", anyOf("open source", "github")},
	{8, "Upgradable proxy contract: requires more trust in the team.", allOf("proxy", "upgradable")},
	{10, "Explicit lack of audit: increased risk.", anyOf("no audit", "unaudited")},
	{8, "Ownership not renounced: team keeps strong control over the contract.", allOf("renounced", "false")},
}

// scoreContractAndCode estimates hack risk from code-related signals.
// Higher is riskier.
func scoreContractAndCode(q string, entityType EntityType, known KnownProject) SubScore {
	var reasons []string
	risk := 60 // base: unknown project

	switch known {
	case ProjectNaoris:
		risk = 25
		reasons = append(reasons, "Naoris: cybersecurity-focused project, generally robust code profile.")
	case ProjectQANX:
		risk = 45
		reasons = append(reasons, "QANX: intermediate project, security and infra focused.")
	case ProjectBitcoin:
		risk = 20
		reasons = append(reasons, "Bitcoin: heavily tested, battle-hardened code.")
	case ProjectEthereum:
		risk = 30
		reasons = append(reasons, "Ethereum: mature ecosystem, but higher code complexity.")
	}

	switch entityType {
	case EntityEVMContract:
		risk += 10
		reasons = append(reasons, "EVM contract: large attack surface (potential code bugs).")
	case EntityWallet:
		risk += 5
		reasons = append(reasons, "Wallet: risk mostly tied to private key handling.")
	}

	return applyRules(risk, q, contractRules, reasons)
}

var liquidityRules = []keywordRule{
	{-15, "Locked liquidity mentioned (LP locked): lower rug pull risk.", anyOf("liquidity locked", "lp locked")},
	{-10, "LP burned: a rug pull becomes much harder.", anyOf("lp burned", "liquidity burned")},
	{-3, "No tax: fewer ponzi mechanics through excessive fees.", anyOf("no tax")},
	{12, "Low liquidity announced: very high price-impact sensitivity.", anyOf("low liquidity")},
	{8, "Heavy transaction taxes: toxic tokenomics risk.", anyOf("high tax", "buy tax", "sell tax")},
	{8, "Anti-whale disabled: large dumps are possible.", anyOf("anti-whale disabled")},
}

// scoreLiquidityAndMarket estimates hack risk from liquidity and market
// behavior signals.
func scoreLiquidityAndMarket(q string) SubScore {
	return applyRules(60, q, liquidityRules, nil)
}

var distributionRules = []keywordRule{
	{10, "Heavily concentrated top-10 holders: massive dump risk.", anyOf("top 10 hold", "top10")},
	{-8, "Anti-whale mechanism detected: limits large sells.", anyOf("anti-whale")},
	{-5, "Fair launch: more balanced initial distribution.", anyOf("fair launch")},
	{12, "Large share held by the team wallet: strong dependence on their behavior.", allOf("team wallet", "40%")},
}

// scoreDistributionAndHolders estimates hack risk from holder distribution
// signals.
func scoreDistributionAndHolders(q string) SubScore {
	return applyRules(55, q, distributionRules, nil)
}

var reputationRules = []keywordRule{
	{15, "Excessive marketing promises (100x, pump, guaranteed): strong potential scam signal.",
		anyOf("1000x", "100x", "pump", "moon", "lambo", "no risk", "garanti", "guaranteed", "double your money")},
	{8, "Free airdrop: phishing or bait-marketing risk.", allOf("airdrop", "free")},
	{-8, "KYC mentioned: team at least partially identified.", anyOf("kyc")},
	{-10, "Doxxed team: better public accountability.", anyOf("doxxed team", "team doxxed")},
	{-5, "Listed on CMC/Coingecko: passed a minimum filter.", anyOf("listed on coingecko", "listed on cmc")},
	{-4, "Announced exchange partnerships: extra credibility.", allOf("partnership", "exchange")},
}

// scoreOffchainReputation estimates hack risk from off-chain reputation and
// communication signals.
func scoreOffchainReputation(q string) SubScore {
	return applyRules(55, q, reputationRules, nil)
}

var quantumRules = []keywordRule{
	{-20, "Explicit mention of post-quantum cryptography / PQC.",
		anyOf("post-quantum", "postquantum", "quantum safe", "pqc", "lattice", "hash-based", "hash based")},
	{10, "Explicit reference to classical ECDSA/RSA: vulnerable long term.", anyOf("ecdsa", "rsa")},
}

// scoreQuantumProfile estimates how exposed the project is to future quantum
// attacks. Higher is more vulnerable.
func scoreQuantumProfile(q string, known KnownProject) SubScore {
	var reasons []string
	risk := 60

	switch known {
	case ProjectNaoris:
		risk = 20
		reasons = append(reasons, "Naoris: explicitly post-quantum oriented project.")
	case ProjectQANX:
		risk = 35
		reasons = append(reasons, "QANX: security/quantum orientation already announced.")
	case ProjectBitcoin, ProjectEthereum:
		risk = 80
		reasons = append(reasons, "Bitcoin/Ethereum: classical cryptography, vulnerable long term.")
	}

	return applyRules(risk, q, quantumRules, reasons)
}
