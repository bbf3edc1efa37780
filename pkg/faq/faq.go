// Package faq holds the curated question/answer table and its two-stage
// matcher. The table is code-defined, loaded once, never mutated.
package faq

import "strings"

// Entry is one curated FAQ. Entries are evaluated in declaration order,
// so more specific phrases must come before broader ones.
type Entry struct {
	Key      string
	Answer   string
	Keywords []string
}

const (
	// minKeywordHits is the floor below which an entry is not even scored.
	minKeywordHits = 2
	// minScore is the combined score a best match must reach to be returned.
	minScore = 4
)

var entries = []Entry{
	{
		Key:      "claim settlement ratio",
		Answer:   "ICICI Prudential Life Insurance has an impressive 99.3% claim settlement ratio for FY 2024-25, which demonstrates their strong commitment to processing and settling customer claims reliably.",
		Keywords: []string{"claim", "settlement", "ratio", "percentage"},
	},
	{
		Key:      "what is icici",
		Answer:   "ICICI Prudential Life Insurance Company Limited is one of India's leading life insurance providers. They offer a wide range of insurance products including life insurance, health insurance, retirement plans, and investment-linked insurance policies. With a 99.3% claim settlement ratio and coverage for over 3.17 crore lives, they are a trusted name in the insurance industry.",
		Keywords: []string{"what", "icici", "insurance", "prudential", "company"},
	},
	{
		Key:      "types of insurance",
		Answer:   "ICICI Prudential offers various types of insurance including: Life Insurance (term plans, whole life), Health Insurance, Retirement Plans, Child Plans, Investment Plans (ULIPs), and Savings Plans. Each plan is designed to meet different financial goals and protection needs.",
		Keywords: []string{"types", "kinds", "products", "offer"},
	},
	{
		Key:      "file claim",
		Answer:   "To file a claim with ICICI Prudential: 1) Visit the Claims section on the ICICI Prudential website to submit online, 2) Call the 24x7 ClaimCare helpline at 1800-266-0, 3) Visit a physical branch, or 4) Email claimsupport@iciciprulife.com. You'll need policy documents, death certificate (for death claims), and other relevant documentation.",
		Keywords: []string{"file", "claim", "submit", "process"},
	},
	{
		Key:      "contact",
		Answer:   "You can contact ICICI Prudential customer support through: 24x7 ClaimCare Helpline: 1800-266-0, Email: claimsupport@iciciprulife.com, or visit any ICICI Prudential branch. For grievances, you can also reach out to their Grievance Redressal Department.",
		Keywords: []string{"contact", "customer", "support", "helpline", "phone"},
	},
	{
		Key:      "benefits life insurance",
		Answer:   "Key benefits of ICICI Life Insurance include: Financial Security for your family, Wealth Creation through investment plans, Tax Savings under Section 80C and 10(10D), Retirement Planning options, Death Benefit coverage, and Long-term financial protection. Plans also offer flexibility in premium payment and policy terms.",
		Keywords: []string{"benefit", "advantage", "life", "insurance"},
	},
	{
		Key:      "health insurance",
		Answer:   "ICICI Prudential offers health insurance riders and health covers that can be added to life insurance policies. These provide coverage for medical expenses, critical illness, surgical procedures, and hospitalization. Popular options include ICICI Pru Health Protector and ICICI Pru Vital Care Benefit.",
		Keywords: []string{"health", "medical", "wellness"},
	},
	{
		Key:      "premium payment",
		Answer:   "ICICI Prudential offers flexible premium payment options including: Online payment through their website or app, Auto-debit from bank accounts, Payment at branches, Mobile wallets, and Credit/Debit cards. You can choose monthly, quarterly, half-yearly, or annual payment frequencies.",
		Keywords: []string{"premium", "payment", "pay"},
	},
	{
		Key:      "term insurance",
		Answer:   "Term insurance is a pure protection plan that provides life cover for a specified term. ICICI Prudential's term insurance plans offer high life cover at affordable premiums, with benefits like tax savings, flexible policy terms (10-40 years), and riders for critical illness or accidental death. Popular plans include ICICI Pru iProtect Smart.",
		Keywords: []string{"term", "insurance", "pure", "protection"},
	},
	{
		Key:      "retirement plans",
		Answer:   "ICICI Prudential offers retirement and pension plans that help you build a corpus for your post-retirement life. These plans provide regular income after retirement, guaranteed benefits, and wealth accumulation through bonuses. Options include immediate annuity plans and deferred pension plans with flexible payout options.",
		Keywords: []string{"retirement", "pension", "annuity"},
	},
	{
		Key:      "ulip plans",
		Answer:   "ULIPs (Unit Linked Insurance Plans) from ICICI Prudential combine insurance protection with investment opportunities. Your premiums are invested in equity, debt, or balanced funds based on your risk appetite. They offer flexibility to switch between funds, partial withdrawals, and tax benefits under Section 80C and 10(10D).",
		Keywords: []string{"ulip", "unit", "linked", "investment"},
	},
	{
		Key:      "child plans",
		Answer:   "ICICI Prudential's child plans help secure your child's future by building a fund for education, marriage, or other milestones. These plans offer life cover for the parent, premium waiver in case of unfortunate events, and guaranteed payouts at specific intervals to meet your child's financial needs.",
		Keywords: []string{"child", "children", "education", "kids", "insurance"},
	},
	{
		Key:      "tax benefits",
		Answer:   "ICICI Prudential life insurance policies offer tax benefits under Section 80C (up to ₹1.5 lakh deduction on premiums paid) and Section 10(10D) (tax-free maturity and death benefits). However, tax benefits are subject to prevailing tax laws and conditions. Consult a tax advisor for your specific situation.",
		Keywords: []string{"tax", "benefits", "80c", "deduction"},
	},
	{
		Key:      "riders",
		Answer:   "ICICI Prudential offers various riders to enhance your policy coverage including: Accidental Death Benefit Rider, Critical Illness Rider, Surgical Care Rider, Income Benefit Rider, and Premium Waiver Benefit. Riders provide additional protection at affordable costs and can be customized based on your needs.",
		Keywords: []string{"rider", "riders", "additional", "benefit"},
	},
	{
		Key:      "premium cost",
		Answer:   "Premium costs for ICICI Prudential policies depend on several factors: your age, sum assured, policy term, premium payment term, health status, and lifestyle habits. Women typically get lower premiums (up to 15% discount). You can get a personalized quote on their website or by contacting their advisors at 1800-266-0.",
		Keywords: []string{"premium", "cost", "price", "how", "much"},
	},
	{
		Key:      "maturity benefit",
		Answer:   "Maturity benefit is the amount paid by ICICI Prudential when your policy completes its full term. It typically includes: the sum assured, accumulated bonuses (if applicable), and guaranteed additions. For ULIP plans, it's the fund value. For traditional plans, it includes guaranteed maturity benefit plus any declared bonuses.",
		Keywords: []string{"maturity", "benefit", "payout", "completion"},
	},
	{
		Key:      "savings plans",
		Answer:   "ICICI Prudential's savings plans help you accumulate wealth while providing life cover. These plans offer guaranteed returns, bonuses, flexible premium payment options, and maturity benefits. Popular options include traditional endowment plans, money-back policies, and guaranteed savings plans with life cover throughout the policy term.",
		Keywords: []string{"savings", "save", "accumulation", "wealth"},
	},
}

// Entries returns the curated table in declaration order.
func Entries() []Entry {
	return entries
}

// Match checks the query against the FAQ table. Phrase containment is
// tried first and wins outright; keyword scoring is the fallback and
// only returns a sufficiently strong best match.
func Match(query string) (string, bool) {
	queryLower := strings.ToLower(query)

	// Stage 1: phrase containment, first satisfying entry wins
	for _, entry := range entries {
		if !strings.Contains(queryLower, entry.Key) {
			continue
		}
		allWords := true
		for _, word := range strings.Fields(entry.Key) {
			if !strings.Contains(queryLower, word) {
				allWords = false
				break
			}
		}
		if allWords {
			return entry.Answer, true
		}
	}

	// Stage 2: weighted keyword overlap across all entries
	maxScore := 0
	var best string
	for _, entry := range entries {
		hits := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(queryLower, keyword) {
				hits++
			}
		}
		if hits < minKeywordHits {
			continue
		}

		phraseWords := 0
		for _, word := range strings.Fields(entry.Key) {
			if strings.Contains(queryLower, word) {
				phraseWords++
			}
		}

		score := hits + 2*phraseWords
		if score > maxScore {
			maxScore = score
			best = entry.Answer
		}
	}

	if maxScore >= minScore {
		return best, true
	}
	return "", false
}
