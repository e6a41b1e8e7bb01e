package patterns

// =============================================================================
// PATTERN DEFINITIONS BY CATEGORY
// All patterns are registered here and compiled once at first use.
// This provides a single source of truth for all detection rules.
// =============================================================================

// --- URGENCY / PRESSURE PATTERNS ---
func (t *Table) registerUrgencyPatterns() {
	cat := CategoryUrgency

	t.register("urgency_keywords", `(?i)\b(urgent|immediately|asap|right now|today only|expires?|expiring)\b`, cat, "Generic urgency keywords")
	t.register("act_now", `(?i)\b(act now|hurry|don't wait|final notice|last chance|limited time)\b`, cat, "Act-now pressure phrasing")
	t.register("deadline_window", `(?i)\b(within \d+ (hours?|days?|minutes?|seconds?))\b`, cat, "Artificial countdown deadline")
	t.register("account_state_threat", `(?i)\b(account (suspended|locked|compromised|restricted|disabled|terminated))\b`, cat, "Account suspension pressure")
	t.register("verify_demand", `(?i)\b(verify (your )?(account|identity|password|email|phone))\b`, cat, "Verification demand")
	t.register("immediate_action", `(?i)\b(immediate (action|attention|response) (required|needed))\b`, cat, "Immediate action required")
	t.register("failure_consequence", `(?i)\b(failure to (respond|verify|confirm|act))\b`, cat, "Failure-to-act consequence")
	t.register("time_sensitive", `(?i)\b(time.?(sensitive|critical|limited))\b`, cat, "Time-sensitive framing")
	t.register("too_late", `(?i)\b(before it'?s too late)\b`, cat, "Before-it's-too-late framing")
	t.register("scarcity", `(?i)\b(only \d+ (left|remaining|available))\b`, cat, "Artificial scarcity")
	t.register("offer_expiry", `(?i)\b(offer (ends|expires|valid until))\b`, cat, "Expiring offer")
	t.register("verb_now", `(?i)\b(pay now|upgrade now|review now|see now|claim now)\b`, cat, "Imperative-now phrasing")
	t.register("or_else", `(?i)\b(now or|or lose|or miss|or else)\b`, cat, "Or-else ultimatum")
	t.register("dont_miss", `(?i)\b(don't miss|don't lose)\b`, cat, "Loss-aversion trigger")
	t.register("pending_action", `(?i)\b(pending.{0,15}(action|approval|review))\b`, cat, "Pending-action nudge")
}

// --- CREDENTIAL REQUEST PATTERNS ---
func (t *Table) registerCredentialPatterns() {
	cat := CategoryCredential

	t.register("enter_secret", `(?i)\b(enter (your )?(password|pin|ssn|credit card|cvv|security code))\b`, cat, "Direct request for a secret")
	t.register("confirm_identity", `(?i)\b(confirm (your )?(account|identity|details|password|login))\b`, cat, "Identity confirmation request")
	t.register("update_credentials", `(?i)\b(update (your )?(information|password|credentials|payment|billing))\b`, cat, "Credential update request")
	t.register("provide_credentials", `(?i)\b(provide (your )?(password|credentials|information|details))\b`, cat, "Credential disclosure request")
	t.register("reset_credentials", `(?i)\b(reset (your )?(password|credentials|account))\b`, cat, "Unsolicited reset request")
	t.register("login_to_verify", `(?i)\b(login (to )?(verify|confirm|secure|protect))\b`, cat, "Login-to-verify lure")
	t.register("signin_to_verify", `(?i)\b(sign.?in (to )?(verify|confirm|update))\b`, cat, "Sign-in-to-verify lure")
	t.register("reenter_credentials", `(?i)\b(re.?enter (your )?(password|credentials))\b`, cat, "Re-enter credentials request")
	t.register("validate_account", `(?i)\b(validate (your )?(account|identity|card))\b`, cat, "Validation request")
	t.register("authenticate_account", `(?i)\b(authenticate (your )?(account|identity))\b`, cat, "Authentication request")
	t.register("needs_verification", `(?i)\b(needs? verification)\b`, cat, "Generic verification demand")
	t.register("requires_verification", `(?i)\b(require[sd]? verification)\b`, cat, "Generic verification demand")
	t.register("verification_required", `(?i)\b(verification (needed|required|process))\b`, cat, "Generic verification demand")
	t.register("complete_verification", `(?i)\b(complete.{0,15}(verification|process|form))\b`, cat, "Complete-the-form lure")
}

// --- THREAT / FEAR PATTERNS ---
func (t *Table) registerThreatPatterns() {
	cat := CategoryThreat

	t.register("unauthorized_access", `(?i)\b(unauthorized (access|activity|login|transaction|charge))\b`, cat, "Unauthorized activity claim")
	t.register("security_alert", `(?i)\b(security (alert|warning|breach|issue|concern|threat))\b`, cat, "Security alert framing")
	t.register("suspicious_activity", `(?i)\b(suspicious (activity|login|attempt|transaction|behavior))\b`, cat, "Suspicious activity claim")
	t.register("unusual_activity", `(?i)\b(unusual (activity|sign.?in|access|behavior))\b`, cat, "Unusual activity claim")
	t.register("someone_tried", `(?i)\b(someone (tried|attempted|accessed|logged))\b`, cat, "Third-party intrusion claim")
	t.register("account_at_risk", `(?i)\b(your (account|data|information) (is|has been|was|may be) (at risk|compromised|hacked|breached))\b`, cat, "Compromise claim")
	t.register("legal_action", `(?i)\b(legal (action|consequences|proceedings))\b`, cat, "Legal threat")
	t.register("law_enforcement", `(?i)\b(law enforcement|police|fbi|authorities)\b`, cat, "Law enforcement invocation")
	t.register("arrest_warrant", `(?i)\b(arrest warrant|court order|subpoena)\b`, cat, "Arrest/court threat")
	t.register("identity_theft", `(?i)\b(identity (theft|stolen|compromised))\b`, cat, "Identity theft claim")
	t.register("malware_claim", `(?i)\b(malware|virus|infected|hacked)\b`, cat, "Infection claim")
	t.register("code_on_device", `(?i)\b((verification|auth|security) code.{0,20}(another|different|new) device)\b`, cat, "Verification code hijacking")
	t.register("code_used", `(?i)\b(code.{0,15}(used|being used|was used).{0,15}(another|different))\b`, cat, "Verification code hijacking")
	t.register("wasnt_you", `(?i)\b(if this wasn'?t you)\b`, cat, "Wasn't-you prompt")
	t.register("wasnt_you_secure", `(?i)\b(wasn'?t you.{0,20}(secure|protect|verify))\b`, cat, "Wasn't-you prompt with action")
}

// --- FINANCIAL LURE PATTERNS ---
func (t *Table) registerFinancialPatterns() {
	cat := CategoryFinancial

	t.register("payment_keywords", `(?i)\b(bank|credit card|debit card|payment|transaction|billing)\b`, cat, "Payment vocabulary")
	t.register("crypto_transfer", `(?i)\b(wire transfer|bitcoin|cryptocurrency|crypto|eth|btc)\b`, cat, "Wire/crypto transfer vocabulary")
	t.register("money_amount", `[$£€¥₹]\s?\d+[,\d]*(\.\d{2})?`, cat, "Explicit money amount")
	t.register("refund_lure", `(?i)\b(refund|reimbursement|compensation|rebate)\b`, cat, "Refund lure")
	t.register("prize_lure", `(?i)\b(prize|winner|won|lottery|jackpot|sweepstakes)\b`, cat, "Prize/lottery lure")
	t.register("win_money", `(?i)\bwin\b[^.!?]{0,20}[$£€¥₹]`, cat, "Win-money lottery lure")
	t.register("inheritance_lure", `(?i)\b(inheritance|beneficiary|unclaimed funds)\b`, cat, "Inheritance scam lure")
	t.register("investment_lure", `(?i)\b(investment opportunity|guaranteed returns|roi)\b`, cat, "Investment scam lure")
	t.register("tax_refund", `(?i)\b(tax (refund|return|rebate))\b`, cat, "Tax refund lure")
	t.register("overdue_payment", `(?i)\b(overdue (payment|invoice|balance))\b`, cat, "Overdue payment pressure")
	t.register("outstanding_balance", `(?i)\b(outstanding (balance|debt|amount))\b`, cat, "Outstanding balance pressure")
	t.register("free_gift", `(?i)\b(free (gift|money|iphone|samsung|macbook))\b`, cat, "Free gift lure")
}

// --- SOCIAL ENGINEERING PATTERNS ---
func (t *Table) registerSocialEngineeringPatterns() {
	cat := CategorySocialEngineering

	t.register("dear_customer", `(?i)\b(dear (valued )?(customer|user|member|client|account holder))\b`, cat, "Impersonal greeting")
	t.register("we_noticed", `(?i)\b(we (have|noticed|detected|observed|found))\b`, cat, "We-noticed framing")
	t.register("your_order", `(?i)\b(your (recent )?(order|purchase|transaction|shipment))\b`, cat, "Order reference")
	t.register("valued_customer", `(?i)\b(as a (valued|loyal|special) (customer|member))\b`, cat, "Flattery framing")
	t.register("for_your_security", `(?i)\b(for (your|account) (security|safety|protection))\b`, cat, "For-your-security framing")
	t.register("avoid_suspension", `(?i)\b(to (avoid|prevent) (suspension|termination|closure))\b`, cat, "Avoid-suspension pressure")
	t.register("routine_check", `(?i)\b(routine (maintenance|security|verification|check))\b`, cat, "Routine-check pretext")
	t.register("mandatory_update", `(?i)\b(mandatory (update|verification|action))\b`, cat, "Mandatory-action pretext")
	t.register("failed_event", `(?i)\b(failed (delivery|payment|transaction|verification))\b`, cat, "Failed-event pretext")
	t.register("undelivered_item", `(?i)\b(undelivered (package|parcel|mail|item))\b`, cat, "Undelivered item pretext")
	t.register("package_failure", `(?i)\b(package|parcel|delivery|shipment) (could not|cannot|was not|unable)\b`, cat, "Delivery failure pretext")
	t.register("reschedule_delivery", `(?i)\b(reschedule|schedule|arrange) (your )?(delivery|pickup)\b`, cat, "Reschedule delivery lure")
	t.register("will_be_returned", `(?i)\b((will be|be) returned)\b`, cat, "Return-to-sender pressure")
	t.register("delivery_attempt", `(?i)\b(delivery (attempt|failed|unsuccessful))\b`, cat, "Delivery attempt pretext")
}

// --- ACTION REQUEST PATTERNS ---
func (t *Table) registerActionRequestPatterns() {
	cat := CategoryActionRequest

	t.register("click_here", `(?i)\b(click (here|the link|below|this|the button))\b`, cat, "Click-here request")
	t.register("follow_link", `(?i)\b(follow (this|the) link)\b`, cat, "Follow-link request")
	t.register("tap_here", `(?i)\b(tap (here|the link|below|to))\b`, cat, "Tap-here request (SMS)")
	t.register("visit_link", `(?i)\b(visit (this|our|the) (link|website|page|portal))\b`, cat, "Visit-link request")
	t.register("go_to", `(?i)\b(go to|navigate to|access)\b`, cat, "Navigation request")
	t.register("download_attachment", `(?i)\b(download (the )?(attachment|file|document|form))\b`, cat, "Download request")
	t.register("open_attachment", `(?i)\b(open (the )?(attachment|file|document|link))\b`, cat, "Open-attachment request")
	t.register("scan_qr", `(?i)\b(scan (this|the) (qr|code|barcode))\b`, cat, "QR code request")
	t.register("reply_now", `(?i)\b(reply (with|to|immediately))\b`, cat, "Reply request")
	t.register("call_now", `(?i)\b(call (this|the|us|now|immediately))\b`, cat, "Call request")
	t.register("complete_here", `(?i)\b(complete.{0,10}(here|now|process|form))\b`, cat, "Complete-here request")
	t.register("see_who", `(?i)\b(see (who|what|why|here|now))\b`, cat, "Curiosity trigger")
	t.register("find_out", `(?i)\b(find out|check (out|now|here))\b`, cat, "Find-out trigger")
	t.register("cancel_here", `(?i)\b(cancel.{0,10}(here|now|if))\b`, cat, "Cancel-here lure")
	t.register("review_now", `(?i)\b(review (now|here|document|details))\b`, cat, "Review-now request")
}

// --- CRYPTO / NFT SCAM PATTERNS ---
func (t *Table) registerCryptoScamPatterns() {
	cat := CategoryCryptoScam

	t.register("airdrop", `(?i)\b(airdrop|free (tokens?|coins?|nft|crypto))\b`, cat, "Airdrop/free token lure")
	t.register("connect_wallet", `(?i)\b(connect (your )?(wallet|metamask))\b`, cat, "Wallet connection request")
	t.register("claim_reward", `(?i)\b(claim (your )?(reward|tokens?|coins?|nft|prize))\b`, cat, "Claim-reward lure")
	t.register("wallet_at_risk", `(?i)\b(wallet (compromised|at risk|verification))\b`, cat, "Wallet compromise claim")
	t.register("seed_phrase", `(?i)\b(seed phrase|private key|recovery phrase)\b`, cat, "Seed phrase request")
	t.register("mint_now", `(?i)\b(mint (now|free|limited))\b`, cat, "Mint-now pressure")
	t.register("presale", `(?i)\b(whitelist|presale|early access)\b`, cat, "Presale exclusivity lure")
	t.register("staking_yield", `(?i)\b(staking reward|yield|apr|apy)\b`, cat, "Yield promise")
	t.register("verified_contract", `(?i)\b(verified (contract|collection|project))\b`, cat, "False legitimacy claim")
	t.register("rug_pull", `(?i)\b(rug.?pull|honeypot)\b`, cat, "Crypto scam vocabulary")
}

// --- IMPERSONATION INDICATOR PATTERNS ---
func (t *Table) registerImpersonationPatterns() {
	cat := CategoryImpersonation

	t.register("official_notice", `(?i)\b(official (notice|notification|communication|update))\b`, cat, "Official-notice framing")
	t.register("from_support", `(?i)\b(from (the )?(support|security|admin|team|department))\b`, cat, "Support team claim")
	t.register("customer_service", `(?i)\b(customer (service|support|care|team))\b`, cat, "Customer service claim")
	t.register("account_team", `(?i)\b(account (team|department|services))\b`, cat, "Account team claim")
	t.register("do_not_reply", `(?i)\b(do not (reply|respond|ignore))\b`, cat, "Do-not-reply framing")
	t.register("automated_message", `(?i)\b(this (is|message is) (automated|auto.?generated))\b`, cat, "Automated message claim")
	t.register("help_desk", `(?i)\b(help desk|helpdesk|it department)\b`, cat, "Help desk claim")
	t.register("admin_team", `(?i)\b(administrator|admin team|system admin)\b`, cat, "Administrator claim")
}

// --- SAFE CONTEXT PATTERNS (reduce the rule score) ---
func (t *Table) registerSafeContextPatterns() {
	cat := CategorySafeContext

	t.register("user_initiated", `(?i)\b(you requested|if this was you|if you did this)\b`, cat, "User-initiated action reference")
	t.register("billing_info", `(?i)\b(your (next )?billing date|subscription renews?|next payment)\b`, cat, "Normal billing information")
	t.register("self_service", `(?i)\b(manage your subscription|subscription settings)\b`, cat, "Self-service reference")
	t.register("order_confirmation", `(?i)\b(order confirmed|thanks for your order|order #?\d+)\b`, cat, "Order confirmation")
	t.register("payment_receipt", `(?i)\b(receipt for|payment of \$[\d.]+ to)\b`, cat, "Payment receipt")
	t.register("delivery_update", `(?i)\b(scheduled to be delivered|on its way|tracking number)\b`, cat, "Delivery status update")
	t.register("statement_ready", `(?i)\b(statement is ready|view (your )?statement)\b`, cat, "Account statement")
	t.register("calendar", `(?i)\b(meeting|reminder|appointment|calendar)\b`, cat, "Calendar/scheduling context")
	t.register("social_notification", `(?i)\b(commented on|liked your|shared your|tagged you)\b`, cat, "Social notification")
	t.register("work_communication", `(?i)\b(team meeting|project update|weekly|monthly digest)\b`, cat, "Work communication")
	t.register("thanks_for", `(?i)\b(thanks for (using|your)|thank you for)\b`, cat, "Thank-you message")
	t.register("signed_thanks", `(?i)\bthanks,?\s+\w+\b`, cat, "Signed thanks")
}

// --- OBFUSCATED URL NOTATION PATTERNS ---
func (t *Table) registerObfuscatedURLPatterns() {
	cat := CategoryObfuscatedURL

	t.register("defanged_scheme", `(?i)hxxp`, cat, "Defanged URL scheme")
	t.register("dot_notation", `(?i)\[dot\]|\[\.\]`, cat, "[dot] notation")
	t.register("percent_encoding", `%[0-9a-fA-F]{2}`, cat, "URL percent encoding")
	t.register("html_entity", `&#\d+;`, cat, "HTML entity encoding")
	t.register("at_before_domain", `@.*\.`, cat, "@ symbol before domain")
}
