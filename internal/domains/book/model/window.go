package model

import borrowingModel "library-backend/internal/domains/borrowing/model"

// Window is the borrowing_date/returning_date search window
type Window = borrowingModel.Window
