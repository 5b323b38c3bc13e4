// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

// FallbackFileName is the file name reported by the bundled fallback result.
const FallbackFileName = "startup_service_agreement.pdf"

// SampleContract is the document text bundled with the fallback result.
const SampleContract = `TERMS OF SERVICE AND USER AGREEMENT

1. ACCEPTANCE OF TERMS
By accessing this website, you are agreeing to be bound by these web site Terms and Conditions of Use, all applicable laws and regulations, and agree that you are responsible for compliance with any applicable local laws.

2. DATA OWNERSHIP AND PRIVACY
The Service Provider reserves the right to collect, store, and sell anonymized user data to third-party advertisers for the purpose of improving service delivery and targeted marketing. User content uploaded to the platform becomes the joint intellectual property of the User and the Service Provider. The Service Provider retains a perpetual, irrevocable, worldwide, royalty-free license to use, reproduce, and display such content.

3. SUBSCRIPTION AND BILLING
Subscriptions renew automatically unless cancelled 30 days prior to the renewal date. We reserve the right to increase subscription fees at any time without prior notice to the user. No refunds will be issued for partial months of service.

4. LIMITATION OF LIABILITY
In no event shall the Service Provider or its suppliers be liable for any damages (including, without limitation, damages for loss of data or profit, or due to business interruption) arising out of the use or inability to use the materials on the Service Provider's Internet site.

5. ARBITRATION AND GOVERNING LAW
Any claim relating to the Service Provider's web site shall be governed by the laws of the State of Delaware without regard to its conflict of law provisions. Any dispute arising from this agreement shall be settled by binding arbitration conducted in Bermuda, and the user explicitly waives their right to a trial by jury or to participate in a class-action lawsuit.

6. TERMINATION
We may terminate or suspend access to our Service immediately, without prior notice or liability, for any reason whatsoever, including without limitation if you breach the Terms.`

// Fallback returns the fixed result installed whenever the remote analyzer
// cannot be used. Each call returns a fresh copy.
func Fallback() *Result {
	return &Result{
		FileName: FallbackFileName,
		Text:     SampleContract,
		Summary: []string{
			"Users grant the platform a perpetual license to their content.",
			"Data can be sold to third-party advertisers.",
			"Subscriptions auto-renew with a 30-day cancellation notice requirement.",
			"Binding arbitration is required, waiving jury trial rights.",
			"Service can be terminated at any time without notice.",
		},
		Risks: []RiskFinding{
			{
				ID:          1,
				Severity:    SeverityHigh,
				Title:       "Data Selling & IP Rights",
				Snippet:     "collect, store, and sell anonymized user data to third-party advertisers",
				Explanation: "The provider explicitly states they can sell your data. Additionally, they claim joint ownership of your uploaded content.",
				Category:    "Privacy",
			},
			{
				ID:          2,
				Severity:    SeverityHigh,
				Title:       "Binding Arbitration / Class Action Waiver",
				Snippet:     "binding arbitration conducted in Bermuda, and the user explicitly waives their right",
				Explanation: "Forced arbitration in a foreign jurisdiction (Bermuda) makes it extremely expensive and difficult for you to sue them. You also lose the right to join class actions.",
				Category:    "Legal Recourse",
			},
			{
				ID:          3,
				Severity:    SeverityMedium,
				Title:       "Unilateral Fee Changes",
				Snippet:     "increase subscription fees at any time without prior notice",
				Explanation: "They can raise prices whenever they want without telling you first. Standard clauses usually require 30 days notice.",
				Category:    "Financial",
			},
			{
				ID:          4,
				Severity:    SeverityMedium,
				Title:       "Termination Without Cause",
				Snippet:     "terminate or suspend access to our Service immediately, without prior notice",
				Explanation: "They can ban you instantly for 'any reason whatsoever', threatening business continuity.",
				Category:    "Operational",
			},
		},
	}
}
