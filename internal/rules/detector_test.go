package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEmptySource(t *testing.T) {
	assert.Empty(t, Detect("", "AnyToken"))
	assert.Empty(t, Detect("", ""))
}

func TestDetectCleanSource(t *testing.T) {
	src := `
		contract SimpleToken {
			mapping(address => uint256) balances;
			function transfer(address to, uint256 amount) public returns (bool) {
				balances[msg.sender] -= amount;
				balances[to] += amount;
				return true;
			}
		}`
	assert.Empty(t, Detect(src, "SimpleToken"))
}

func TestDetectIndividualRules(t *testing.T) {
	tests := []struct {
		name             string
		source           string
		contractName     string
		expectedFlag     string
		expectedSeverity Severity
	}{
		{
			name:             "delegatecall marks proxy",
			source:           "assembly { let result := delegatecall(gas(), impl, 0, calldatasize(), 0, 0) }",
			expectedFlag:     "Proxy / upgradeable contract",
			expectedSeverity: SeverityMedium,
		},
		{
			name:             "proxy in contract name alone",
			source:           "contract body without keywords",
			contractName:     "TokenProxy",
			expectedFlag:     "Proxy / upgradeable contract",
			expectedSeverity: SeverityMedium,
		},
		{
			name:             "mint function",
			source:           "function mint(address to, uint256 amount) external onlyOwner {}",
			expectedFlag:     "Mint function detected",
			expectedSeverity: SeverityHigh,
		},
		{
			name:             "blacklist mapping",
			source:           "mapping(address => bool) public isBlacklisted;",
			expectedFlag:     "Blacklist mechanism",
			expectedSeverity: SeverityMedium,
		},
		{
			name:             "pausable modifier",
			source:           "function transfer(address to, uint256 v) public whenNotPaused {}",
			expectedFlag:     "Pausable contract / potential trading lock",
			expectedSeverity: SeverityMedium,
		},
		{
			name:             "tax variables",
			source:           "uint256 public sellTax = 5; uint256 public marketingFee = 3;",
			expectedFlag:     "Transfer taxes",
			expectedSeverity: SeverityMedium,
		},
		{
			name:             "ownable scheme",
			source:           "contract Token is Ownable { function setFee() external onlyOwner {} }",
			expectedFlag:     "Owner control (Ownable)",
			expectedSeverity: SeverityLow,
		},
		{
			name:             "anti-bot limits",
			source:           "uint256 public maxTransactionAmount; uint256 cooldown = 30;",
			expectedFlag:     "Trading limits / anti-bot",
			expectedSeverity: SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := Detect(tt.source, tt.contractName)

			names := make([]string, len(flags))
			for i, f := range flags {
				names[i] = f.Name
			}
			require.Contains(t, names, tt.expectedFlag)

			for _, f := range flags {
				if f.Name == tt.expectedFlag {
					assert.Equal(t, tt.expectedSeverity, f.Severity)
					assert.NotEmpty(t, f.Reason)
				}
			}
		})
	}
}

func TestDetectMatchingIsCaseInsensitive(t *testing.T) {
	upper := Detect("FUNCTION MINT(ADDRESS TO) EXTERNAL", "")
	lower := Detect("function mint(address to) external", "")
	assert.Equal(t, lower, upper)
}

func TestDetectMultipleIndependentRules(t *testing.T) {
	src := `
		contract Token is Ownable {
			function mint(address to, uint256 amount) external onlyOwner {
				_mint(to, amount);
			}
		}`
	flags := Detect(src, "Token")

	require.Len(t, flags, 2)
	// Flags come out in fixed table order: mint before ownable.
	assert.Equal(t, "Mint function detected", flags[0].Name)
	assert.Equal(t, SeverityHigh, flags[0].Severity)
	assert.Equal(t, "Owner control (Ownable)", flags[1].Name)
	assert.Equal(t, SeverityLow, flags[1].Severity)
}

func TestDetectFlagOrderIsStable(t *testing.T) {
	// Source tripping every rule must produce flags in table order.
	src := `
		contract EvilToken is Ownable, Pausable {
			// proxy delegatecall
			function mint(address to) external onlyOwner whenNotPaused {}
			mapping(address => bool) blacklist;
			uint256 sellTax = 10;
			uint256 maxTransactionAmount = 1000;
		}`
	flags := Detect(src, "EvilProxy")

	require.Len(t, flags, 7)
	expected := []string{
		"Proxy / upgradeable contract",
		"Mint function detected",
		"Blacklist mechanism",
		"Pausable contract / potential trading lock",
		"Transfer taxes",
		"Owner control (Ownable)",
		"Trading limits / anti-bot",
	}
	for i, name := range expected {
		assert.Equal(t, name, flags[i].Name)
	}
}
