// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the Kitchen
Table API.

# Request Types

Bodies sent by the client:

  - SignupRequest, LoginRequest, ForgotPasswordRequest, ResetPasswordRequest
  - CreateTableRequest, JoinTableRequest, TableSettingsRequest, SwitchTableRequest
  - ProfileRequest, DeleteAccountRequest
  - SubmitResponseRequest, EditResponseRequest

# Response Types

Payloads decoded by the client:

  - TodayPayload: prompt, user_response, date, seconds_until_next_prompt
  - DatePayload: prompt, responses, user_response, date
  - PollPayload: responses, count
  - TableInfo: table, user, members
  - TableList: tables, current_table_id
  - MessageResponse: message, redirect, reset_token
  - ErrorResponse: error

# Domain Types

  - Prompt: the day's question with its responses and editability
  - Response: one member's answer
  - Table / TableSummary: a group and its switcher entry
  - User, Member: identity and membership

Every value is transient: a page holds the latest payload until the next
reload replaces it wholesale.

# Constants

Roles:

	RoleOwner  = "owner"
	RoleMember = "member"

Limits:

	ResponseMaxLength = 500
	TableNameMin      = 3
	TableNameMax      = 50
	DefaultPromptTime = "17:00"
*/
package models
