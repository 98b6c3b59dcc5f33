package grpc

import (
	"context"
	"errors"
	"time"

	"lostfound/app"
	"lostfound/domain"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ItemServiceName = "lostfound.v1.ItemService"

// ItemService is a read-only view of the listings built on protobuf
// well-known types, so no generated code is needed.
type ItemService interface {
	GetItem(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	ListItems(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
}

var ItemServiceDesc = grpc.ServiceDesc{
	ServiceName: ItemServiceName,
	HandlerType: (*ItemService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetItem", Handler: getItemHandler},
		{MethodName: "ListItems", Handler: listItemsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lostfound/v1/item.proto",
}

func RegisterItemService(registrar grpc.ServiceRegistrar, srv ItemService) {
	registrar.RegisterService(&ItemServiceDesc, srv)
}

type ItemServiceServer struct {
	items    app.ItemRepository
	comments app.CommentRepository
}

func NewItemServiceServer(items app.ItemRepository, comments app.CommentRepository) *ItemServiceServer {
	return &ItemServiceServer{
		items:    items,
		comments: comments,
	}
}

func (s *ItemServiceServer) GetItem(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "item id is required")
	}

	item, err := s.items.GetByID(ctx, req.GetValue())
	if err != nil {
		return nil, s.mapError(err)
	}

	comments, err := s.comments.ListForItem(ctx, item.ID)
	if err != nil {
		return nil, s.mapError(err)
	}

	commentValues := make([]any, 0, len(comments))
	for _, c := range comments {
		commentValues = append(commentValues, commentFields(c))
	}

	out, err := structpb.NewStruct(map[string]any{
		"item":     itemFields(item),
		"comments": commentValues,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *ItemServiceServer) ListItems(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}

	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, itemFields(item))
	}

	out, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *ItemServiceServer) mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return status.Error(codes.InvalidArgument, "invalid item id")
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "item not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func itemFields(item domain.Item) map[string]any {
	return map[string]any{
		"id":          item.ID,
		"title":       item.Title,
		"description": item.Description,
		"contactInfo": item.ContactInfo,
		"imageUrl":    item.ImageURL,
		"createdAt":   item.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":   item.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func commentFields(c domain.Comment) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"itemId":    c.ItemID,
		"text":      c.Text,
		"createdAt": c.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt": c.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func getItemHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ItemService).GetItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ItemServiceName + "/GetItem",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ItemService).GetItem(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listItemsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ItemService).ListItems(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ItemServiceName + "/ListItems",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ItemService).ListItems(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
